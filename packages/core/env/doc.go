// Package env resolves the variables a test run starts with.
//
// Variables come from .env files, prefixed system environment variables,
// the config file and command line assignments. String values may contain
// templates resolved by Resolver:
//
//	{{name}}            a known variable
//	{{$HOME}}           an environment variable
//	{{$uuid()}}         a builtin function call
//
// A string that is exactly one {{name}} template resolves to the variable
// value itself, keeping its type.
package env
