// Package treemap lays out an analyzed artifact tree as nested rectangles
// whose areas follow lines of code.
//
// # Algorithm
//
// [Compute] partitions the content rectangle of every scope recursively.
// A single part takes the whole rectangle; its own content area is the
// frame minus a header strip and padding. Two or more parts are cut into
// two contiguous groups. When the parts span several weak components the
// cut must fall between components, otherwise between SCCs if there are
// several; among the allowed cuts the one closest to half the lines of code
// wins, the earliest on ties. The rectangle is then split in proportion,
// left/right or top/bottom, with a gap that grows with the scope's area and
// is tripled between components.
//
// Parts must be sorted so that components and SCCs are contiguous, as
// architecture.Sort does.
//
// # Infeasible Sizes
//
// When neither orientation keeps both halves above [MinWidth] and
// [MinHeight], the rectangle is split 50/50 along its longer side. Every
// presented artifact always gets geometry; the scope is marked as not
// showing content instead.
//
// # Purity
//
// Compute only reads the tree. The same tree and options always produce
// the same [Layout], so layouts can be memoized per size and filter.
package treemap
