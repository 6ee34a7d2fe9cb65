// Package config loads service configuration from a YAML file, an optional
// .env file and the process environment.
//
// Values are layered in that order: the YAML file provides the base, every
// environment variable is then bound under all of its nested key spellings
// (GROQ_API_KEY answers to groq_api_key, groq.api_key and groq.api.key), and
// explicit aliases map flat variables such as PORT onto nested keys.
//
//	var cfg app.Config
//	err := config.LoadConfig("compapol", &cfg,
//	    config.WithAlias("PORT", "server.port"))
//
// Defaults and validation live on the target struct; ServiceConfig carries
// the fields every service shares.
package config
