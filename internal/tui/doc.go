// Package tui implements the crmdesk terminal user interface.
//
// Component architecture:
//
//	model.go     root model, message routing, Init/Update/View
//	keys.go      key bindings and footer hints
//	theme.go     centralized color + style definitions
//	header.go    tab bar and footer
//	dashboard.go KPI cards and pipeline, mounted behind a loader.Boundary
//	contacts.go  contact table
//	deals.go     deal table
//	status.go    desk health, without failure details
//	compact.go   narrow-terminal card
//	speeddial.go quick-action menu
//	helpers.go   truncation, padding, money formatting
package tui
