// Package config loads the two configuration layers of the Flex SDK installer.
//
// # Manifest
//
// The manifest is the static description of what to install: the SDK
// version, the archive URL, the directory holding the launchers, and the
// launcher roles the binary catalog looks for. It is a Lua file evaluated in
// a sandboxed gopher-lua VM (no os, io, require, load or debug) with the
// read-only platform table injected, so a manifest can pick a URL per OS:
//
//	flexsdk = {
//	    version = "4.6.0.23201",
//	    url = platform.is_windows and "https://example.org/flex.zip"
//	        or "https://example.org/flex.tar.gz",
//	    bin_dir = "bin",
//	    binaries = { "mxmlc", "compc" },
//	}
//
// A default manifest is embedded in the binary; --manifest replaces it.
//
// # Settings
//
// Settings are the per-run knobs (destination directory, error-log path,
// manifest override, verbosity, fetch timeout). They are resolved by viper
// from command-line flags, then FLEXSDK_* environment variables, then
// defaults derived from the executable's location.
package config
