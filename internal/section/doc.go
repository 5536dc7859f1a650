// Package section defines the catalog of fetchable race data sections.
//
// A Registry is an immutable, ordered list of Descriptors. Registry order
// drives iteration everywhere: batch fetch order, progress reporting and
// archive entry order.
//
//	reg := section.Default()
//	for _, d := range reg.All() {
//	    fmt.Printf("%s %s (%s)\n", d.Icon, d.Label, d.Shape)
//	}
package section
