// Package config loads, normalizes, and validates mqreg configuration data.
//
// It supplies repository defaults (the historical /run/mq.list registry and
// /etc/mq/mq.conf batch file), expands user paths including tilde shortcuts,
// reads TOML files, and honours the MQREG_REGISTRY environment override.
//
// Defaults live here and in the command entrypoint only. The registry engine
// and queue operations receive their settings explicitly at construction.
package config
