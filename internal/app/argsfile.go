package app

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/vk/gridflow/internal/model"
	"github.com/vk/gridflow/internal/task"
)

type argsFileEntry struct {
	Name      string                    `yaml:"name"`
	Arguments map[string]map[string]any `yaml:"arguments"`
}

// LoadArgsFile reads executions from a YAML file of the form
//
//	- name: first
//	  arguments:
//	    fetch: {url: "https://example.com"}
func LoadArgsFile(path string) ([]*model.Execution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read args file: %w", err)
	}

	var entries []argsFileEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode args file %s: %w", path, err)
	}

	executions := make([]*model.Execution, 0, len(entries))
	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("args file %s: entry %d has no name", path, i)
		}
		exec := &model.Execution{
			Name:          e.Name,
			Arguments:     make(map[string]task.Args, len(e.Arguments)),
			FSInformation: model.NewFSInfo(path, 0),
		}
		for step, args := range e.Arguments {
			exec.Arguments[step] = task.Args(args)
		}
		executions = append(executions, exec)
	}
	return executions, nil
}
