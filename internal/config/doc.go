// Package config provides configuration management for f1rdf.
//
// Settings are read from a JSON or YAML file and then overridden by
// F1RDF_* environment variables. A .env file in the working directory can
// supply those variables through LoadDotEnv.
//
// # Basic Usage
//
//	if err := config.LoadDotEnv(); err != nil {
//	    return err
//	}
//	settings, err := config.Load("f1rdf.yaml")
//	if err != nil {
//	    return err
//	}
//	if err := settings.Validate(); err != nil {
//	    return err
//	}
//
// # File Format
//
//	base_url: https://api.jolpi.ca/ergast/f1
//	request_timeout: 30s
//	max_concurrent_sections: 4
//	output_dir: ./exports
//	write_workbook: true
//	log_level: debug
package config
