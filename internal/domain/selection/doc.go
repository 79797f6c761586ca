// Package selection holds the detail-view state machine: which project is
// open, which carousel image is showing, and the keyboard subscription that
// exists exactly while a project is open.
//
// A Controller is owned by one view and is not safe for concurrent use. The
// KeyBus it subscribes to may be shared and is safe for concurrent use.
package selection
