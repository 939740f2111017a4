package core

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"izpack/internal/types"
)

var variableRefPattern = regexp.MustCompile(`\$\{([^${}]+)\}|\$([A-Za-z_][A-Za-z0-9_.\-]*)`)

// VariableRefs returns the variable names a dynamic variable depends on, in
// first-seen order: names referenced as ${name} or $name in its value and
// variables tested by the condition guarding it.
func VariableRefs(variable types.DynamicVariable, rules map[string]types.Condition) []string {
	var refs []string
	seen := map[string]struct{}{}
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		refs = append(refs, name)
	}
	for _, match := range variableRefPattern.FindAllStringSubmatch(variable.Value, -1) {
		if match[1] != "" {
			add(match[1])
		} else {
			add(match[2])
		}
	}
	if variable.ConditionID != "" {
		for _, name := range conditionVariables(variable.ConditionID, rules, map[string]bool{}) {
			add(name)
		}
	}
	return refs
}

func conditionVariables(id string, rules map[string]types.Condition, visited map[string]bool) []string {
	if visited[id] {
		return nil
	}
	visited[id] = true
	condition, ok := rules[id]
	if !ok {
		return nil
	}
	var names []string
	if condition.Type == types.ConditionTypeVariable && condition.Variable != "" {
		names = append(names, condition.Variable)
	}
	for _, operand := range condition.Operands {
		names = append(names, conditionVariables(operand, rules, visited)...)
	}
	return names
}

// BuildVariableList flattens the dynamic variable definitions into an order in
// which every definition follows the definitions of the variables it
// references. Names without a definition are external and add no edge, and a
// definition referring to its own name reads the previous value, so it adds no
// edge either.
func BuildVariableList(dynamic map[string][]types.DynamicVariable, rules map[string]types.Condition) ([]types.DynamicVariable, error) {
	names := make([]string, 0, len(dynamic))
	for name := range dynamic {
		names = append(names, name)
	}
	sort.Strings(names)

	// Vertices are indices into flat; labels exist only for error messages.
	var flat []types.DynamicVariable
	var labels []string
	indices := map[string][]int{}
	for _, name := range names {
		for i, variable := range dynamic[name] {
			indices[name] = append(indices[name], len(flat))
			flat = append(flat, variable)
			labels = append(labels, vertexLabel(name, i, len(dynamic[name])))
		}
	}

	graph := NewDependencyGraph()
	for index := range flat {
		graph.AddVertex(strconv.Itoa(index))
	}
	for _, name := range names {
		for i, variable := range dynamic[name] {
			index := indices[name][i]
			for _, ref := range VariableRefs(variable, rules) {
				if ref == name {
					continue
				}
				for _, child := range indices[ref] {
					graph.AddEdge(strconv.Itoa(index), strconv.Itoa(child))
				}
			}
		}
	}

	ordered, err := graph.OrderedList()
	if err != nil {
		var cycle *CycleError
		if errors.As(err, &cycle) {
			members := make([]string, 0, len(cycle.Cycle))
			for _, vertex := range cycle.Cycle {
				members = append(members, labels[vertexIndex(vertex)])
			}
			err = &CycleError{Cycle: members}
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("dynamic variables reference each other in a cycle: %s", err.Error())).
			WithCause(err)
	}
	result := make([]types.DynamicVariable, 0, len(ordered))
	for _, vertex := range ordered {
		result = append(result, flat[vertexIndex(vertex)])
	}
	return result, nil
}

func vertexIndex(vertex string) int {
	index, _ := strconv.Atoi(vertex)
	return index
}

func vertexLabel(name string, index int, count int) string {
	if count == 1 {
		return name
	}
	return fmt.Sprintf("%s[%d]", name, index)
}
