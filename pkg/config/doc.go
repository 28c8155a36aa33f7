/*
Package config resolves the settings of a fixsyntax run.

	+-----------+     +-------------+     +-----------+
	| defaults  | --> | config file | --> |   flags   |
	+-----------+     +------+------+     +-----------+
	                         |
	         +---------------+---------------+
	         |               |               |
	    +----+----+     +----+----+     +----+----+
	    |  YAML   |     |  JSON   |     |   HCL   |
	    | Parser  |     | Parser  |     | Parser  |
	    +---------+     +---------+     +---------+

A run has exactly one input path and one rule. The built-in defaults
repair the popup.js block where line breaks were saved as the literal
pairs \r\n. A config file and command line flags override them, in that order.

Parsers register themselves by file extension. Unknown fields are rejected
by every format.

🔍 Example:

	cfg, err := config.Resolve(ctx, "fixsyntax.yaml", &config.Config{
		InputPath: "web/popup.js",
	})
	if err != nil {
		return err
	}
	rule := cfg.Rule()
*/
package config
