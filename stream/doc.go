// Package stream opens files through named plugins, e.g. plain files or
// gzip-compressed ones. Plugins are grouped by namespace in a Registry and
// looked up by name or alias.
//
// # Usage
//
//	fh, err := stream.Open("backup.conf.gz", stream.ModeRead, "gzip", nil)
//	if errors.Is(err, stream.ErrNoPlugin) {
//		// no such method
//	}
//
// A Reader from the iniconf package can read through a plugin:
//
//	r := iniconf.NewReader()
//	r.Open = stream.Opener("gzip", nil)
//	cfg, err := r.Read("backup.conf.gz")
package stream
