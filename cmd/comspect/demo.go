package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lemonbalms/comrt"
	"github.com/lemonbalms/comrt/object"
	"github.com/lemonbalms/comrt/registry"
)

// The built-in demo model: a file manager that implements
// IFileManager itself and exposes ILocalFileManager through an
// aggregated inner object.
var (
	iFileManager = comrt.NewDescriptor("IFileManager",
		comrt.MustID("712a57c6-cb21-4a1f-8c1c-6a1b2e3d4f50"))
	iLocalFileManager = comrt.NewDescriptor("ILocalFileManager",
		comrt.MustID("4fd9cbb1-5f03-4f86-9b5c-70d4a8e6f1a2"))
)

type localFileManager struct {
	deleted int
}

type fileManager struct {
	user string
}

func demoRegistry() *registry.Registry {
	r := registry.New()
	r.MustRegisterInterface(iFileManager)
	r.MustRegisterInterface(iLocalFileManager)

	r.MustRegisterClass(&registry.Class{
		Name:        "local_file_manager",
		Implements:  []comrt.InterfaceID{iLocalFileManager.ID},
		Constructor: func(init any) any { return &localFileManager{} },
		Binders: map[comrt.InterfaceID]registry.Binder{
			iLocalFileManager.ID: func(state any) []object.Slot {
				s := state.(*localFileManager)
				return []object.Slot{
					// DeleteLocal
					func(args ...any) (any, error) {
						s.deleted++
						return fmt.Sprintf("deleted local file #%d", s.deleted), nil
					},
				}
			},
		},
	})

	r.MustRegisterClass(&registry.Class{
		Name:        "file_manager",
		Implements:  []comrt.InterfaceID{iFileManager.ID},
		Constructor: func(init any) any { return &fileManager{user: fmt.Sprint(init)} },
		Binders: map[comrt.InterfaceID]registry.Binder{
			iFileManager.ID: func(state any) []object.Slot {
				s := state.(*fileManager)
				return []object.Slot{
					// DeleteAll
					func(args ...any) (any, error) {
						return "deleted everything for " + s.user, nil
					},
				}
			},
		},
		Aggregates: []registry.Aggregate{{
			Field:    "local",
			Class:    "local_file_manager",
			Forwards: []comrt.InterfaceID{iLocalFileManager.ID},
		}},
	})
	return r
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the canonical aggregation scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := demoRegistry()

			fmt.Println("creating file_manager (aggregates local_file_manager)")
			ptr, err := r.CreateInstance("file_manager", "demo", iFileManager.ID)
			if err != nil {
				return err
			}
			fmt.Printf("  got %s, count now 1\n", ptr.Descriptor().Name)

			res, err := ptr.Call(0)
			if err != nil {
				return err
			}
			fmt.Printf("  IFileManager slot 0: %v\n", res)

			fmt.Println("querying ILocalFileManager (satisfied by the aggregated inner)")
			local, err := ptr.QueryInterface(iLocalFileManager.ID)
			if err != nil {
				return err
			}
			fmt.Printf("  got %s table backed by %T\n", local.Descriptor().Name, local.Instance())

			res, err = local.Call(0)
			if err != nil {
				return err
			}
			fmt.Printf("  ILocalFileManager slot 0: %v\n", res)

			fmt.Println("releasing the local pointer (decrements the outer)")
			fmt.Printf("  count now %d\n", local.Release())

			fmt.Println("releasing the factory pointer (tears down outer and inner)")
			fmt.Printf("  count now %d\n", ptr.Release())
			return nil
		},
	}
}
