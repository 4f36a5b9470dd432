// Package tui is the interactive gallery browser: a search box, a grid of
// results with a selection cursor, a pagination bar and a status line.
//
// The model drives a gallery.Controller. Key presses call Submit,
// NextPage or PreviousPage on the UI loop; the returned request is fetched
// in a tea.Cmd and the result comes back as a message that Update applies.
package tui
