package container

import (
	"fmt"

	"github.com/docker/go-connections/nat"
)

// ParsePorts parses publish specs such as "3000", "8080:80" or
// "127.0.0.1:5432:5432/tcp" into exposed ports and bindings.
func ParsePorts(specs []string) (nat.PortSet, nat.PortMap, error) {
	if len(specs) == 0 {
		return nil, nil, nil
	}
	exposed, bindings, err := nat.ParsePortSpecs(specs)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid port mapping: %w", err)
	}
	return exposed, bindings, nil
}
