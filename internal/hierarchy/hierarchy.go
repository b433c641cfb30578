package hierarchy

import (
	"fmt"
	"sort"

	"github.com/vzctl/github-helpers/internal/catalog"
	"github.com/vzctl/github-helpers/internal/fileutil"
)

// DefaultDeploymentType selects the API entities that represent deployed
// multisig contracts.
const DefaultDeploymentType = "multisig-deployment"

// Options configures one aggregation run.
type Options struct {
	DeploymentType string
}

// Signer pairs a signing entity with its resolved owner.
type Signer struct {
	Signer catalog.Entity `json:"signer"`
	Owner  catalog.Entity `json:"owner"`
}

// Deployment is one multisig deployment and the signers behind it.
type Deployment struct {
	Entity  catalog.Entity `json:"entity"`
	Signers []Signer       `json:"signers"`
}

// ComponentGroup is one component and the deployments it provides.
type ComponentGroup struct {
	Title       string         `json:"title"`
	Component   catalog.Entity `json:"component"`
	Deployments []Deployment   `json:"deployments"`
}

// SystemGroup is the top level of the ownership tree.
type SystemGroup struct {
	Title      string           `json:"title"`
	System     catalog.Entity   `json:"system"`
	Components []ComponentGroup `json:"components"`
}

// DanglingRefError reports a mandatory reference that resolves to nothing.
// The whole aggregation fails on it; pruning the broken branch would present
// an incomplete ownership picture as complete.
type DanglingRefError struct {
	Ref        string
	DeclaredBy string
}

func (e *DanglingRefError) Error() string {
	return fmt.Sprintf("entity %q references %q which is not in the catalog", e.DeclaredBy, e.Ref)
}

// Aggregate builds the System -> Component -> Deployment -> Signer tree from
// the indexed entity set. Output ordering depends only on entity references
// and names, never on catalog response order.
func Aggregate(idx *catalog.Index, opts Options) ([]SystemGroup, error) {
	if opts.DeploymentType == "" {
		opts.DeploymentType = DefaultDeploymentType
	}

	deployments := idx.Filter(func(e catalog.Entity) bool {
		return e.Kind == catalog.KindAPI && e.Spec.Type == opts.DeploymentType
	})

	systemRefs, declaredBy := distinctSystemRefs(deployments)

	groups := make([]SystemGroup, 0, len(systemRefs))
	for _, ref := range systemRefs {
		system, err := idx.Lookup(ref)
		if err != nil {
			return nil, &DanglingRefError{Ref: ref, DeclaredBy: declaredBy[ref]}
		}

		components, err := systemComponents(idx, system)
		if err != nil {
			return nil, err
		}

		group := SystemGroup{Title: system.DisplayTitle(), System: system, Components: make([]ComponentGroup, 0, len(components))}
		for _, component := range components {
			cg := ComponentGroup{Title: component.DisplayTitle(), Component: component, Deployments: make([]Deployment, 0)}
			for _, d := range providedBy(deployments, component.Ref()) {
				signers, err := deploymentSigners(idx, d)
				if err != nil {
					return nil, err
				}
				cg.Deployments = append(cg.Deployments, Deployment{Entity: d, Signers: signers})
			}
			group.Components = append(group.Components, cg)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// distinctSystemRefs collects the owning-system references declared by the
// deployments, deduplicated and sorted lexicographically. The second return
// maps each ref to one declaring deployment for error context.
func distinctSystemRefs(deployments []catalog.Entity) ([]string, map[string]string) {
	set := make(map[string]bool, len(deployments))
	declaredBy := make(map[string]string, len(deployments))
	for _, d := range deployments {
		if d.Spec.System == "" {
			continue
		}
		ref := catalog.QualifyRef(d.Spec.System, catalog.KindSystem)
		if !set[ref] {
			set[ref] = true
			declaredBy[ref] = d.Ref()
		}
	}
	return fileutil.MapKeysSorted(set), declaredBy
}

func systemComponents(idx *catalog.Index, system catalog.Entity) ([]catalog.Entity, error) {
	components := make([]catalog.Entity, 0)
	for _, rel := range system.Relations {
		if rel.Type != catalog.RelationHasPart {
			continue
		}
		if catalog.RefKind(rel.TargetRef) != "component" {
			continue
		}
		component, err := idx.Lookup(rel.TargetRef)
		if err != nil {
			return nil, &DanglingRefError{Ref: rel.TargetRef, DeclaredBy: system.Ref()}
		}
		components = append(components, component)
	}
	sort.Slice(components, func(i, j int) bool {
		return components[i].Metadata.Name < components[j].Metadata.Name
	})
	return components, nil
}

// providedBy selects the deployments carrying an apiProvidedBy edge to the
// component, sorted by name so the result does not depend on catalog
// response order.
func providedBy(deployments []catalog.Entity, componentRef string) []catalog.Entity {
	out := make([]catalog.Entity, 0)
	for _, d := range deployments {
		for _, rel := range d.Relations {
			if rel.Type == catalog.RelationAPIProvidedBy && rel.TargetRef == componentRef {
				out = append(out, d)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Metadata.Name < out[j].Metadata.Name
	})
	return out
}

// deploymentSigners resolves the deployment's ownedBy edges to signer/owner
// pairs. Group-kind owners are not signers and are skipped before lookup.
func deploymentSigners(idx *catalog.Index, deployment catalog.Entity) ([]Signer, error) {
	signers := make([]Signer, 0)
	for _, rel := range deployment.Relations {
		if rel.Type != catalog.RelationOwnedBy {
			continue
		}
		if catalog.RefKind(rel.TargetRef) == "group" {
			continue
		}
		signer, err := idx.Lookup(rel.TargetRef)
		if err != nil {
			return nil, &DanglingRefError{Ref: rel.TargetRef, DeclaredBy: deployment.Ref()}
		}
		ownerRef := catalog.QualifyRef(signer.Spec.Owner, catalog.KindGroup)
		owner, err := idx.Lookup(ownerRef)
		if err != nil {
			return nil, &DanglingRefError{Ref: ownerRef, DeclaredBy: signer.Ref()}
		}
		signers = append(signers, Signer{Signer: signer, Owner: owner})
	}
	sort.Slice(signers, func(i, j int) bool {
		return signers[i].Owner.Metadata.Name < signers[j].Owner.Metadata.Name
	})
	return signers, nil
}
