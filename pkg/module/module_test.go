package module

import (
	"reflect"
	"testing"
)

type testModule struct {
	id ModuleID
}

func (m testModule) ModuleInfo() ModuleInfo {
	return ModuleInfo{
		ID: m.id,
		NewInstance: func() Module {
			return &testModule{id: m.id}
		},
	}
}

var _ Module = (*testModule)(nil)

func TestRegisterModule(t *testing.T) {
	type args struct {
		module Module
	}
	tests := []struct {
		name string
		args args
	}{
		{
			name: "default",
			args: args{
				module: testModule{id: "test.register"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Register(tt.args.module)
			if _, err := Lookup(tt.args.module.ModuleInfo().ID); err != nil {
				t.Errorf("Lookup() error = %v", err)
			}
			Unregister(tt.args.module)
			if _, err := Lookup(tt.args.module.ModuleInfo().ID); err == nil {
				t.Errorf("Lookup() after Unregister() error = %v, want error", err)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	modulesLock.Lock()
	modules = map[ModuleID]ModuleInfo{
		"test": {ID: "test"},
	}
	modulesLock.Unlock()

	type args struct {
		id ModuleID
	}
	tests := []struct {
		name    string
		args    args
		want    ModuleInfo
		wantErr bool
	}{
		{
			name: "default",
			args: args{
				id: "test",
			},
			want: ModuleInfo{
				ID: "test",
			},
		},
		{
			name: "error unknown module",
			args: args{
				id: "unknown",
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(tt.args.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("Lookup() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Lookup() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestList(t *testing.T) {
	modulesLock.Lock()
	modules = map[ModuleID]ModuleInfo{
		"store.redis":  {ID: "store.redis"},
		"store.memory": {ID: "store.memory"},
		"other.test":   {ID: "other.test"},
	}
	modulesLock.Unlock()

	tests := []struct {
		name      string
		namespace string
		want      []ModuleID
	}{
		{
			name:      "default",
			namespace: "store",
			want:      []ModuleID{"store.memory", "store.redis"},
		},
		{
			name:      "empty namespace",
			namespace: "unknown",
			want:      nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := List(tt.namespace); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("List() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModuleIDName(t *testing.T) {
	tests := []struct {
		id            ModuleID
		wantNamespace string
		wantName      string
	}{
		{id: "store.redis", wantNamespace: "store", wantName: "redis"},
		{id: "a.b.c", wantNamespace: "a.b", wantName: "c"},
		{id: "app", wantNamespace: "", wantName: "app"},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			if got := tt.id.Namespace(); got != tt.wantNamespace {
				t.Errorf("ModuleID.Namespace() = %v, want %v", got, tt.wantNamespace)
			}
			if got := tt.id.Name(); got != tt.wantName {
				t.Errorf("ModuleID.Name() = %v, want %v", got, tt.wantName)
			}
		})
	}
}
