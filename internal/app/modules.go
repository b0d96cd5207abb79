package app

import (
	"io"

	"github.com/vk/gridflow/internal/registry"
	"github.com/vk/gridflow/modules/envvars"
	"github.com/vk/gridflow/modules/httprequest"
	"github.com/vk/gridflow/modules/print"
	"github.com/vk/gridflow/modules/s3"
	"github.com/vk/gridflow/modules/socketio"
)

// coreModules is the definitive list of all modules that are compiled into
// the gridflow binary. print writes to out.
func coreModules(out io.Writer) []registry.Module {
	return []registry.Module{
		&envvars.Module{},
		&print.Module{Out: out},
		&httprequest.Module{},
		&s3.Module{},
		&socketio.Module{},
	}
}
