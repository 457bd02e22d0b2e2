// Package config provides configuration parsing for the noorform server.
//
// The configuration is stored in noorform.json (or noorform.yaml) and can be
// overridden by NOORFORM_ADDR, NOORFORM_DEV and NOORFORM_LOCALE.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "host": "0.0.0.0",
//	    "port": 8080,
//	    "shutdownTimeout": "10s"
//	  },
//	  "locale": "ar",
//	  "devMode": false,
//	  "metrics": {
//	    "enabled": true,
//	    "path": "/metrics"
//	  },
//	  "sink": {
//	    "kind": "s3",
//	    "s3": {"bucket": "forms", "prefix": "submissions", "region": "me-south-1"}
//	  },
//	  "session": {
//	    "idleTimeout": "60s",
//	    "maxMessageBytes": 4096
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
