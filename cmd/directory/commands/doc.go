// Package commands implements the directory CLI: serve runs the data-source
// server, browse opens the terminal browser and list prints one page.
package commands
