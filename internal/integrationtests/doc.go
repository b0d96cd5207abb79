// Package integrationtests holds end-to-end scenarios: definition files are
// written to disk, loaded and run through the app exactly as the CLI does.
package integrationtests
