// Package cmd provides the vacuumassist command-line interface.
//
// # Available Commands
//
//   - serve: run the site, with live reload when --dev is set
//   - render: write the initial page to stdout or export a static site
//   - audit: check the rendered page for accessibility problems
//   - config: print the effective configuration as YAML
//   - version: print build information
//
// # Configuration
//
// Settings are merged from, highest priority first: command-line flags,
// VACUUMASSIST_<SECTION>_<KEY> environment variables (a .env file in the
// working directory is loaded first), the config file and built-in defaults.
// The config file is taken from --config, then VACUUMASSIST_CONFIG_FILE, then
// .vacuumassist.yml in the working directory.
//
//	export VACUUMASSIST_SERVER_PORT=3000
//	vacuumassist serve --dev
//
//	vacuumassist render --output dist
//	vacuumassist audit --format json
package cmd
