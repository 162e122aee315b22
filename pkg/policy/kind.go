package policy

import "fmt"

// Kind is the type of a policy statement, written as a YAML tag
type Kind int

const (
	KindRole Kind = iota
	KindUser
)

func (k Kind) String() string {
	switch k {
	case KindRole:
		return "role"
	case KindUser:
		return "user"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) Tag() string {
	return "!" + k.String()
}

func kindOfTag(tag string) (Kind, bool) {
	for _, k := range []Kind{KindRole, KindUser} {
		if k.Tag() == tag {
			return k, true
		}
	}
	return 0, false
}
