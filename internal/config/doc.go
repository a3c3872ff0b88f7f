// Package config provides configuration management for the agent demo.
//
// Configuration is loaded from a .env file (when present) and environment
// variables, then validated on startup. All options besides the Azure OpenAI
// credentials have sensible defaults for development.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg)
package config
