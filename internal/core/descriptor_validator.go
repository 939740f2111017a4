package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"
	debversion "github.com/knqyf263/go-deb-version"
	"github.com/rs/zerolog/log"

	"izpack/internal/streams"
	"izpack/internal/types"
)

var validConditionTypes = map[types.ConditionType]struct{}{
	types.ConditionTypeVariable:      {},
	types.ConditionTypePackSelection: {},
	types.ConditionTypeJava:          {},
	types.ConditionTypeAnd:           {},
	types.ConditionTypeOr:            {},
	types.ConditionTypeNot:           {},
}

type DescriptorValidator struct{}

func NewDescriptorValidator() DescriptorValidator {
	return DescriptorValidator{}
}

func (v DescriptorValidator) ValidateDescriptor(ctx context.Context, descriptor types.Descriptor) error {
	assert.NotEmpty(ctx, descriptor.Info.AppName, "info.app_name must be set")
	assert.NotEmpty(ctx, descriptor.Info.AppVersion, "info.app_version must be set")
	if err := validateInfo(descriptor.Info); err != nil {
		return err
	}
	conditions, err := validateConditions(descriptor.Conditions)
	if err != nil {
		return err
	}
	if err := validatePacks(descriptor.Packs, conditions); err != nil {
		return err
	}
	if err := validatePanels(descriptor.Panels, conditions); err != nil {
		return err
	}
	if err := validateLocales(descriptor.Locales); err != nil {
		return err
	}
	if err := validateResources(descriptor.Resources, "resources"); err != nil {
		return err
	}
	if err := validateResources(descriptor.NativeLibraries, "native_libraries"); err != nil {
		return err
	}
	for _, variable := range descriptor.DynamicVariables {
		if strings.TrimSpace(variable.Name) == "" {
			return invalidDescriptor("dynamic_variables.name must not be empty")
		}
		if err := requireCondition(conditions, variable.Condition, "dynamic variable "+variable.Name); err != nil {
			return err
		}
	}
	for _, requirement := range descriptor.InstallerRequirements {
		if err := requireCondition(conditions, requirement.ConditionID, "installer requirement"); err != nil {
			return err
		}
	}
	for _, requirement := range descriptor.DynamicInstallerRequirements {
		if err := requireCondition(conditions, requirement.ConditionID, "dynamic installer requirement"); err != nil {
			return err
		}
	}
	for _, listener := range descriptor.Listeners {
		if strings.TrimSpace(listener.Name) == "" {
			return invalidDescriptor("listeners.name must not be empty")
		}
	}
	log.Ctx(ctx).Debug().Str("app", descriptor.Info.AppName).Int("packs", len(descriptor.Packs)).Msg("descriptor validated")
	return nil
}

func validateInfo(info types.DescriptorInfo) error {
	if _, err := debversion.NewVersion(info.AppVersion); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("info.app_version is not a valid version: %s", info.AppVersion)).
			WithCause(err)
	}
	if strings.TrimSpace(info.JavaVersion) != "" {
		if _, err := pep440.Parse(info.JavaVersion); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("info.java_version is not a valid version: %s", info.JavaVersion)).
				WithCause(err)
		}
	}
	if _, err := streams.ParsePackCompression(info.Compression); err != nil {
		return err
	}
	return nil
}

func validateConditions(specs []types.ConditionSpec) (map[string]types.ConditionSpec, error) {
	conditions := map[string]types.ConditionSpec{}
	for _, condition := range specs {
		if strings.TrimSpace(condition.ID) == "" {
			return nil, invalidDescriptor("conditions.id must not be empty")
		}
		if _, exists := conditions[condition.ID]; exists {
			return nil, invalidDescriptor(fmt.Sprintf("duplicate condition id: %s", condition.ID))
		}
		if _, ok := validConditionTypes[types.ConditionType(strings.ToLower(condition.Type))]; !ok {
			return nil, invalidDescriptor(fmt.Sprintf("condition %s has invalid type %s", condition.ID, condition.Type))
		}
		conditions[condition.ID] = condition
	}
	for _, condition := range specs {
		if types.ConditionType(strings.ToLower(condition.Type)) == types.ConditionTypeVariable && strings.TrimSpace(condition.Variable) == "" {
			return nil, invalidDescriptor(fmt.Sprintf("variable condition %s must name a variable", condition.ID))
		}
		for _, operand := range condition.Operands {
			if err := requireCondition(conditions, operand, "condition "+condition.ID); err != nil {
				return nil, err
			}
		}
	}
	return conditions, nil
}

func validatePacks(packs []types.PackSpec, conditions map[string]types.ConditionSpec) error {
	if len(packs) == 0 {
		return invalidDescriptor("packs must not be empty")
	}
	names := map[string]struct{}{}
	for _, pack := range packs {
		if err := validatePackName(pack.Name); err != nil {
			return err
		}
		if _, exists := names[pack.Name]; exists {
			return invalidDescriptor(fmt.Sprintf("duplicate pack name: %s", pack.Name))
		}
		names[pack.Name] = struct{}{}
		if pack.Size < 0 {
			return invalidDescriptor(fmt.Sprintf("pack %s has negative size", pack.Name))
		}
		if err := requireCondition(conditions, pack.Condition, "pack "+pack.Name); err != nil {
			return err
		}
		for _, source := range pack.Files {
			if strings.TrimSpace(source.Src) == "" {
				return invalidDescriptor(fmt.Sprintf("pack %s has a file source without src", pack.Name))
			}
			if err := requireCondition(conditions, source.Condition, "pack "+pack.Name+" file source"); err != nil {
				return err
			}
		}
	}

	graph := NewDependencyGraph()
	for _, pack := range packs {
		graph.AddVertex(pack.Name)
		for _, dependency := range pack.Dependencies {
			if _, ok := names[dependency]; !ok {
				return invalidDescriptor(fmt.Sprintf("pack %s depends on unknown pack %s", pack.Name, dependency))
			}
			graph.AddEdge(pack.Name, dependency)
		}
	}
	if _, err := graph.OrderedList(); err != nil {
		var cycle *CycleError
		if errors.As(err, &cycle) {
			return invalidDescriptor(fmt.Sprintf("pack dependencies form a cycle: %s", strings.Join(cycle.Cycle, ", ")))
		}
		return err
	}
	return nil
}

// validatePackName rejects names that cannot be used in an entry or file name.
func validatePackName(name string) error {
	if strings.TrimSpace(name) == "" {
		return invalidDescriptor("packs.name must not be empty")
	}
	if strings.ContainsAny(name, "/\\:") || name == "." || name == ".." {
		return invalidDescriptor(fmt.Sprintf("pack name %q must not contain path separators", name))
	}
	return nil
}

func validatePanels(panels []types.PanelSpec, conditions map[string]types.ConditionSpec) error {
	ids := map[string]struct{}{}
	for _, panel := range panels {
		if strings.TrimSpace(panel.ClassName) == "" {
			return invalidDescriptor("panels.class_name must not be empty")
		}
		if panel.ID != "" {
			if _, exists := ids[panel.ID]; exists {
				return invalidDescriptor(fmt.Sprintf("duplicate panel id: %s", panel.ID))
			}
			ids[panel.ID] = struct{}{}
		}
		if err := requireCondition(conditions, panel.Condition, "panel "+panel.ClassName); err != nil {
			return err
		}
	}
	return nil
}

func validateLocales(locales []types.LangPackSpec) error {
	for _, locale := range locales {
		if len(locale.ISO3) != 3 {
			return invalidDescriptor(fmt.Sprintf("locale %q must be an ISO 639-2 code", locale.ISO3))
		}
		if strings.TrimSpace(locale.XML) == "" {
			return invalidDescriptor(fmt.Sprintf("locale %s missing xml", locale.ISO3))
		}
	}
	return nil
}

func validateResources(resources []types.ResourceSpec, field string) error {
	for _, resource := range resources {
		if strings.TrimSpace(resource.ID) == "" || strings.TrimSpace(resource.Src) == "" {
			return invalidDescriptor(fmt.Sprintf("%s entries need id and src", field))
		}
	}
	return nil
}

func requireCondition(conditions map[string]types.ConditionSpec, id string, owner string) error {
	if id == "" {
		return nil
	}
	if _, ok := conditions[id]; !ok {
		return invalidDescriptor(fmt.Sprintf("%s references unknown condition %s", owner, id))
	}
	return nil
}

func invalidDescriptor(msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg)
}
