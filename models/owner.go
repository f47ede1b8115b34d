package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Owner identifies the user or group that exclusively owns accounts and
// transactions. It is stored as "user:<id>" or "group:<id>".
type Owner string

func UserOwner(userID int) Owner {
	return Owner(fmt.Sprintf("user:%d", userID))
}

func GroupOwner(groupID int) Owner {
	return Owner(fmt.Sprintf("group:%d", groupID))
}

// Parse splits the owner into its kind ("user" or "group") and id.
func (o Owner) Parse() (kind string, id int, err error) {
	kind, raw, ok := strings.Cut(string(o), ":")
	if !ok || (kind != "user" && kind != "group") {
		return "", 0, fmt.Errorf("invalid owner %q", string(o))
	}
	id, err = strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("invalid owner %q", string(o))
	}
	return kind, id, nil
}

func (o Owner) Valid() bool {
	_, _, err := o.Parse()
	return err == nil
}
