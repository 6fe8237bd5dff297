// Package config parses environment variables into typed structs.
//
// Structs declare their variables with caarlos0/env tags. A local .env file,
// when present, is loaded once per process before the first parse so
// development setups do not need exported variables.
//
//	type Config struct {
//	    Addr   string `env:"HTTP_ADDR" envDefault:":8080"`
//	    Secret string `env:"SIGNING_SECRET,required"`
//	}
//
//	cfg, err := config.Load[Config]()
package config
