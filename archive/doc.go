// Package archive stores encoded traces in a SQLite database keyed by channel name and
// sequence number, and serves decoded samples through a TTL cache.
//
//	arc, err := archive.Open("traces.db", archive.WithCacheTTL(time.Minute))
//	if err != nil {
//	    return err
//	}
//	defer arc.Close()
//
//	err = arc.Put(ctx, "IU.ANMO.00.BHZ", 1, data)
//	samples, err := arc.Get(ctx, "IU.ANMO.00.BHZ", 1)
//
// An Archive is safe for concurrent use.
package archive
