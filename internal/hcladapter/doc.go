// Package hcladapter loads gridflow workflow definitions written in HCL into
// the format-agnostic model.
//
// A definition file may contain three kinds of blocks:
//
//	step "http_request" "fetch" {
//	  depends_on = ["load"]          # or http_request.load, or a bare reference
//	  arguments {
//	    url = "https://example.com/${env.TARGET}"
//	  }
//	}
//
//	output "page" {
//	  step = "fetch"
//	}
//
//	execution "first" {
//	  arguments "fetch" {
//	    method = "POST"
//	  }
//	}
//
// Expressions are evaluated once, at load time, with the process environment
// available as `env` and a small set of standard functions.
package hcladapter
