/*
Package patch rewrites a single text file with a single substitution rule.

	+------+   Load   +--------+  Substitute  +--------+   Save   +-------+
	| Idle | -------> | Loaded | -----------> | Loaded | -------> | Saved |
	+------+          +--------+              +--------+          +-------+
	    |                 |                        |                  |
	    +-----------------+------------------------+------------------+--> Failed

🎯 Purpose:
  - Load reads the whole file and rejects content that is not UTF-8 (DecodeError)
  - Substitute replaces every non-overlapping match; no match leaves the text as is
  - Save writes a temporary file beside the target and renames it into place

A missing match is still a successful run. The file is rewritten with
identical bytes and the caller still reports completion. A dry run stops
after Substitute and returns a diff preview instead of saving.

I/O failures are returned as *IOError, decoding failures as *DecodeError.
Both are fatal to the run.

🔍 Example:

	cfg, err := config.Resolve(ctx, "", &config.Config{InputPath: "popup/popup.js"})
	if err != nil {
		return err
	}
	out, err := patch.New(patch.Options{}).Run(ctx, cfg)
	if err != nil {
		var ioErr *patch.IOError
		if errors.As(err, &ioErr) {
			// file missing or not writable
		}
		return err
	}
	fmt.Println(out.Count, "replacements")
*/
package patch
