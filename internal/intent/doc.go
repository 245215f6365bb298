// Package intent turns the developer's free-text task description into the
// set of context sections worth collecting.
//
// Detection is a pure function of the text so it can run on every keystroke.
// Selector layers explicit presets and dismissal on top of it.
package intent
