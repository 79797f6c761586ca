// Package tui renders the portfolio viewer in a terminal: tag chips, a
// search input, the visible project list and a modal carousel for the
// open project.
//
// Carousel state lives in a selection.Controller. The model owns the
// KeyBus the controller subscribes to, so arrow and escape presses only
// reach the carousel while a project is open.
package tui
