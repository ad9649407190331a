// Package tool provides the tool registry and the concrete tools available
// to the script generation agents.
//
// Tools are registered with JSON Schema parameter definitions generated from
// typed argument structs. The [Registry] executes tool calls from the model
// and returns results, capturing handler errors as error results so the model
// can recover in-band.
//
// The concrete tools mirror the capabilities each pipeline role needs:
// web search for research, document reading for reference material, and
// Notion export for publishing. [ForRole] builds the registry for a given
// role name.
package tool
