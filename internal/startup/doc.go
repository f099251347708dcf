// Package startup owns process bring-up: configuration loading (a
// settings.json file, an optional .env file, and environment variable
// overrides, in that order), the startup banner, and the structured
// startup/shutdown log sections.
package startup
