// Package config handles loading and validating sqlitedb configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Seeding the environment from optional .env files
//   - Overriding with SQLITEDB_* environment variables
//   - Validation of required fields via struct tags
//
// Usage:
//
//	cfg, err := config.Load("configs/sqlitedb.yaml", ".env")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Database.Dir)
package config
