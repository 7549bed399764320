// Package fqn derives require-style Lua module names and qualified function
// names from file paths.
package fqn

import (
	"path/filepath"
	"strings"
)

// Module returns the module name require would resolve to relPath under the
// default "?.lua;?/init.lua" search path.
// Examples:
//   - net/http.lua -> net.http
//   - net/init.lua -> net
//   - main.lua     -> main
func Module(relPath string) string {
	relPath = filepath.ToSlash(relPath)
	relPath = strings.TrimSuffix(relPath, filepath.Ext(relPath))
	parts := strings.Split(strings.Trim(relPath, "/"), "/")

	// package/init.lua is required as "package"
	if len(parts) > 1 && parts[len(parts)-1] == "init" {
		parts = parts[:len(parts)-1]
	}
	kept := parts[:0]
	for _, p := range parts {
		if p != "" && p != "." {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ".")
}

// Compute returns the qualified name of a function declared in module.
// Format: <module>.<name>
// Examples:
//   - net.http + get      -> net.http.get
//   - net.http + M.lookup -> net.http.M.lookup
func Compute(module, name string) string {
	switch {
	case module == "":
		return name
	case name == "":
		return module
	}
	return module + "." + name
}
