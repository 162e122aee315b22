package policy

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/convoyrelief/convoyd/pkg/permission"
)

// roleDoc is the YAML shape of a role. Permissions stay strings so names are
// matched exactly against the catalog.
type roleDoc struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Permissions []string `yaml:"permissions,flow"`
}

// Parse reads a role policy and validates it
func Parse(r io.Reader) (*Policy, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return &Policy{}, nil
		}
		return nil, fmt.Errorf("invalid policy: %w", err)
	}

	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: policy must be a sequence of statements", doc.Line)
	}

	p := &Policy{}
	for _, stmt := range doc.Content {
		kind, ok := kindOfTag(stmt.Tag)
		if !ok {
			return nil, fmt.Errorf("line %d: unknown statement %q", stmt.Line, stmt.Tag)
		}
		switch kind {
		case KindRole:
			role, err := decodeRole(stmt)
			if err != nil {
				return nil, err
			}
			p.Roles = append(p.Roles, role)
		case KindUser:
			var u User
			if err := stmt.Decode(&u); err != nil {
				return nil, fmt.Errorf("line %d: %w", stmt.Line, err)
			}
			u.Email = strings.ToLower(u.Email)
			p.Users = append(p.Users, u)
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeRole(stmt *yaml.Node) (Role, error) {
	var doc roleDoc
	if err := stmt.Decode(&doc); err != nil {
		return Role{}, fmt.Errorf("line %d: %w", stmt.Line, err)
	}

	role := Role{Name: doc.Name, Description: doc.Description}
	for _, name := range doc.Permissions {
		perm, ok := permission.Parse(name)
		if !ok {
			return Role{}, fmt.Errorf("line %d: role %s: unknown permission %q", stmt.Line, doc.Name, name)
		}
		role.Permissions = append(role.Permissions, perm)
	}
	return role, nil
}

// Marshal renders a policy in the format Parse reads
func Marshal(p *Policy) ([]byte, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}

	for _, r := range p.Roles {
		doc := roleDoc{Name: r.Name, Description: r.Description}
		for _, perm := range r.Permissions {
			doc.Permissions = append(doc.Permissions, perm.String())
		}
		node, err := tagged(doc, KindRole)
		if err != nil {
			return nil, err
		}
		seq.Content = append(seq.Content, node)
	}
	for _, u := range p.Users {
		node, err := tagged(u, KindUser)
		if err != nil {
			return nil, err
		}
		seq.Content = append(seq.Content, node)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func tagged(v interface{}, kind Kind) (*yaml.Node, error) {
	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return nil, err
	}
	node.Tag = kind.Tag()
	node.Style = yaml.TaggedStyle
	return node, nil
}
