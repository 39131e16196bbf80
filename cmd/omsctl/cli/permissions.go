package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/saddlefit/oms/internal/rbac"
)

// PermissionsOptions defines the flags of the permissions command.
type PermissionsOptions struct {
	Role       string
	Key        string
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// PermissionRow is one evaluated cell of the matrix.
type PermissionRow struct {
	Key     string `json:"key"`
	Role    string `json:"role"`
	Allowed bool   `json:"allowed"`
}

// PermissionsCommand prints the evaluated permission matrix, optionally
// narrowed to one role or one key.
func PermissionsCommand(opts PermissionsOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	roles := rbac.AllRoles()
	if strings.TrimSpace(opts.Role) != "" {
		role, ok := rbac.ParseRole(opts.Role)
		if !ok {
			_, _ = fmt.Fprintf(opts.Stderr, "permissions: unknown role %q\n", opts.Role)
			return 1
		}
		roles = []rbac.Role{role}
	}
	keys := rbac.Keys()
	if strings.TrimSpace(opts.Key) != "" {
		key, ok := rbac.ParsePermissionKey(strings.ToUpper(strings.TrimSpace(opts.Key)))
		if !ok {
			_, _ = fmt.Fprintf(opts.Stderr, "permissions: unknown key %q\n", opts.Key)
			return 1
		}
		keys = []rbac.PermissionKey{key}
	}

	rows := make([]PermissionRow, 0, len(keys)*len(roles))
	for _, key := range keys {
		for _, role := range roles {
			rows = append(rows, PermissionRow{Key: string(key), Role: string(role), Allowed: rbac.HasPermission(role, key)})
		}
	}
	if opts.JSONOutput {
		if err := json.NewEncoder(opts.Stdout).Encode(rows); err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "permissions: encode json: %v\n", err)
			return 1
		}
		return 0
	}
	renderMatrix(opts.Stdout, keys, roles)
	return 0
}

func renderMatrix(w io.Writer, keys []rbac.PermissionKey, roles []rbac.Role) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := []string{"KEY"}
	for _, role := range roles {
		header = append(header, string(role))
	}
	_, _ = fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, key := range keys {
		cells := []string{string(key)}
		for _, role := range roles {
			mark := "-"
			if rbac.HasPermission(role, key) {
				mark = "x"
			}
			cells = append(cells, mark)
		}
		_, _ = fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()
}
