/*
Package engine implements the page template language used by pagegen.

A template is plain text with four kinds of tags:

	{{name}}                   value of a variable, empty when unset
	{{#if name}}...{{/if}}     kept only when name is truthy
	{{#each name}}...{{/each}} repeated per element of a list or records value
	{{>name}}                  the rendered output of another template

Inside an each block the fields of a record element shadow the outer
variables, and a scalar element is available as {{this}}. Includes are always
rendered against the variables passed to the render call, so a partial placed
inside a loop does not see the loop's item fields.

Rendering never fails. Unknown names, includes and loops over non-sequences
produce empty output, include cycles are cut at the repeated template, and any
leftover tag shape is removed from the final text. Constructs that degraded are
reported as Diagnostics.

Templates come from a Source. When a source is unavailable or empty, Load
supplies a single built-in template named "default" so that rendering can
always proceed.
*/
package engine
