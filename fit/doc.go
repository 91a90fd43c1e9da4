// Package fit implements the font-size / line-wrap search that packs
// replacement text into a block's original bounding box. The search is a
// greedy word wrap inside a strictly decreasing font-size loop: simple,
// deterministic, and explainable to a user adjusting settings, at the cost
// of occasionally picking a smaller size than a cleverer layout would need.
// When even the floor size cannot fit, the condition is reported honestly
// in the plan rather than papered over.
package fit
