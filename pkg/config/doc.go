// Package config loads env-tagged configuration structs from environment
// variables, optionally seeded from a .env file for local development.
//
// Each package owning configuration declares its own struct with `env`
// tags; cmd wiring calls Load once per struct at startup.
package config
