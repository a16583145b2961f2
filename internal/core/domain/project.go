package domain

// Project is a node of the build's project hierarchy.
// The cache never writes project state, only the path, and resolves it again on load.
type Project struct {
	Path string
	Name string
	Dir  string
}

// RootProjectPath is the path of the root project.
const RootProjectPath = ":"
