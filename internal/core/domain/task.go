package domain

// Task represents a unit of work in the configured build model.
// It uses InternedString for fields that are frequently repeated to save memory.
// Dependencies point at other tasks of the same graph, so a task graph is a
// reference graph rather than a tree.
type Task struct {
	Name         InternedString
	Project      *Project
	Dependencies []*Task
	Command      []string
	Inputs       FileCollection
	Outputs      []InternedString
	Environment  map[string]string
	Action       *Closure
}

// Path returns the task path qualified by its project, e.g. ":app:build".
func (t *Task) Path() string {
	if t.Project == nil || t.Project.Path == RootProjectPath {
		return ":" + t.Name.String()
	}
	return t.Project.Path + ":" + t.Name.String()
}
