// Package binary fetches, unpacks and inventories the Flex SDK.
//
// It owns the filesystem side of provisioning:
//   - PrepareDestination: wipe and recreate the destination directory
//   - Fetcher: one HTTP(S) GET with redirect following, spooled to disk
//   - Extractor: zip, tar, tar.gz and tar.xz extraction with path checks
//   - Catalog: the role -> path inventory of SDK launchers, rebuilt by Refresh
//   - FixPermissions: restore the owner-execute bit on catalogued launchers
//
// Nothing here retries, caches or verifies checksums; a single failed
// attempt is returned to the caller.
//
// # Usage
//
//	if err := binary.PrepareDestination(dest); err != nil {
//	    return err
//	}
//	if err := binary.NewFetcher(logger).Fetch(ctx, manifest.URL, dest); err != nil {
//	    return err
//	}
//	catalog := binary.NewCatalog(dest, manifest.BinDir, manifest.Binaries, info)
//	if err := catalog.Refresh(); err != nil {
//	    return err
//	}
//	_, err := binary.FixPermissions(catalog.Bin(), logger)
package binary
