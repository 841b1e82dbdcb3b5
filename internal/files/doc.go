// Package files locates the raw dataset workbooks and the cleaned artifacts
// on disk.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths)
//	for _, f := range discovery.RawFiles() {
//		if !f.Exists {
//			fmt.Println("missing", f.Path)
//		}
//	}
package files
