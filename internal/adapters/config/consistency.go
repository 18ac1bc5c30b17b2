package config

import (
	"fmt"

	"go.trai.ch/fnspec/internal/core/domain"
)

// checkConsistency enforces invariants that span several fields.
func checkConsistency(desc *Descriptor) error {
	for _, fn := range desc.Functions {
		for i, ev := range fn.Events {
			project, _, _ := domain.SplitTopicPath(ev.Event.Resource)
			if project == desc.Provider.Project {
				continue
			}

			return &domain.ConsistencyError{
				FieldPath: keyPath(indexPath(keyPath(keyPath("functions", fn.Name), "events"), i), "event.resource"),
				Reason: fmt.Sprintf("topic belongs to project %q but provider.project is %q",
					project, desc.Provider.Project),
			}
		}
	}
	return nil
}
