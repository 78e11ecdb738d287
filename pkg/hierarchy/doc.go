// Package hierarchy turns a flat stakeholder set into a rooted reporting tree.
//
// # Cycle Guard
//
// [WouldCreateCycle] is the single check for tree validity. Every mutation
// that sets or changes a reporting edge must pass it before the new set is
// committed:
//
//	if hierarchy.WouldCreateCycle("CEO", stakeholder.ReportsTo("CFO"), set) {
//	    // reject: CEO -> CFO -> CEO
//	}
//
// # Building
//
// [Build] is a pure function of the set. The tree is rebuilt from scratch on
// every change and never mutated incrementally. When more than one
// stakeholder has no manager, a virtual root is synthesized so layout always
// sees a single root:
//
//	  (virtual)
//	  /       \
//	CEO       COO
//	 |
//	CFO
//
// The virtual root is marked by [Node.Virtual]; it is never returned by
// [Node.Find] or [Node.Visible] and is never clickable or drawn.
//
// Build fails with a BUILD_FAILURE error (DANGLING_REFERENCE when a manager
// name does not resolve) rather than returning a partial tree.
package hierarchy
