package inmemdb

import (
	"sync"

	"github.com/unimatric/admissions/core/admission"
	"github.com/unimatric/admissions/core/user"
)

type (
	DB struct {
		user        *userTable
		application *applicationTable
		quota       *quotaTable
	}

	userTable struct {
		table map[string]*user.User // {id: *User}
		mutex sync.RWMutex
	}

	applicationTable struct {
		table map[string]*admission.Application // {id: *Application}
		mutex sync.RWMutex
	}

	quotaTable struct {
		table map[string]*admission.Quota // {department: *Quota}
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		user:        &userTable{table: make(map[string]*user.User)},
		application: &applicationTable{table: make(map[string]*admission.Application)},
		quota:       &quotaTable{table: make(map[string]*admission.Quota)},
	}
}
