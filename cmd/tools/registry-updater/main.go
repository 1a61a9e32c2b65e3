// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"artvaluation-workers/pkg/registry"
)

var registryPath string

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)

	idAdd := addCmd.String("id", "", "Activity ID (e.g., project-cash-flow)")
	displayName := addCmd.String("displayName", "", "Display Name (e.g., Project Cash Flow)")
	description := addCmd.String("description", "", "Description")
	category := addCmd.String("category", "valuation", "Category")
	taskType := addCmd.String("taskType", "", "Camunda Task Type (e.g., project-cash-flow)")
	version := addCmd.String("version", "1.0.0", "Version")
	implStatus := addCmd.String("status", "planned", "Implementation Status (planned, in-progress, completed, verified)")
	timeout := addCmd.String("timeout", "10s", "Job timeout")
	addCmd.StringVar(&registryPath, "path", "configs/activity-registry.json", "Path to registry file")

	idUpdate := updateCmd.String("id", "", "Activity ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, etc.)")
	value := updateCmd.String("value", "", "New value for the field")

	updateCmd.StringVar(&registryPath, "path", "configs/activity-registry.json", "Path to registry file")
	validateCmd.StringVar(&registryPath, "path", "configs/activity-registry.json", "Path to registry file")
	listCmd.StringVar(&registryPath, "path", "configs/activity-registry.json", "Path to registry file")
	listCategory := listCmd.String("category", "", "Only list activities in this category")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *displayName == "" || *description == "" || *category == "" || *taskType == "" {
			fmt.Println("Error: id, displayName, description, category, and taskType are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		activity := registry.Activity{
			ID:                   *idAdd,
			DisplayName:          *displayName,
			Description:          *description,
			Category:             *category,
			Version:              *version,
			TaskType:             *taskType,
			ImplementationStatus: *implStatus,
			InputSchema:          map[string]interface{}{},
			OutputSchema:         map[string]interface{}{},
			ErrorCodes:           []string{"INVALID_INPUT"},
			Timeout:              *timeout,
			Retries:              0,
			Workflows:            []string{},
			Tags:                 []string{},
		}
		err := addActivity(&activity)
		if err != nil {
			fmt.Printf("Error adding activity: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added activity: %s\n", *idAdd)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		err := updateActivity(*idUpdate, *field, *value)
		if err != nil {
			fmt.Printf("Error updating activity: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated activity %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		err := validateRegistry()
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Registry validation passed.")

	case "list":
		listCmd.Parse(os.Args[2:])
		if err := listActivities(*listCategory); err != nil {
			fmt.Printf("Error listing activities: %v\n", err)
			os.Exit(1)
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

func addActivity(activity *registry.Activity) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		// If file doesn't exist, create new registry
		if os.IsNotExist(err) {
			reg = &registry.ActivityRegistry{
				Version:     "1.0.0",
				LastUpdated: time.Now().Format(time.RFC3339),
				Activities:  []registry.Activity{},
			}
		} else {
			return fmt.Errorf("failed to load registry: %w", err)
		}
	}

	if _, exists := reg.FindByID(activity.ID); exists {
		return fmt.Errorf("activity with ID %s already exists", activity.ID)
	}
	if existing, exists := reg.FindByTaskType(activity.TaskType); exists {
		return fmt.Errorf("task type %s already used by activity %s", activity.TaskType, existing.ID)
	}

	reg.Activities = append(reg.Activities, *activity)
	reg.LastUpdated = time.Now().Format(time.RFC3339)

	if err := reg.Validate(); err != nil {
		return err
	}
	return registry.SaveRegistry(reg, registryPath)
}

func updateActivity(id, field, value string) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	activity, found := reg.FindByID(id)
	if !found {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		activity.ImplementationStatus = value
	case "version":
		activity.Version = value
	case "displayName":
		activity.DisplayName = value
	case "description":
		activity.Description = value
	case "category":
		activity.Category = value
	case "taskType":
		activity.TaskType = value
	case "timeout":
		activity.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		activity.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	reg.LastUpdated = time.Now().Format(time.RFC3339)
	if err := reg.Validate(); err != nil {
		return err
	}
	return registry.SaveRegistry(reg, registryPath)
}

func validateRegistry() error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return err
	}

	fmt.Printf("Found %d activities.\n", len(reg.Activities))
	return nil
}

func listActivities(category string) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TASK TYPE\tSTATUS\tVERSION\tTIMEOUT\tRETRIES")
	for _, a := range reg.Activities {
		if category != "" && a.Category != category {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", a.TaskType, a.ImplementationStatus, a.Version, a.Timeout, a.Retries)
	}
	return w.Flush()
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  add     Add a new activity to the registry
  update  Update an existing activity's field
  validate  Validate the registry file
  list    List activities as a table
  help    Show this help message

Examples:
  registry-updater add -id project-cash-flow -displayName "Project Cash Flow" -description "Projects yearly cash flow and payback" -taskType project-cash-flow
  registry-updater update -id project-cash-flow -field status -value completed
  registry-updater validate -path configs/activity-registry.json
  registry-updater list -category valuation

Use 'registry-updater <command> -h' for more information about a command.
` + "\n")
}
