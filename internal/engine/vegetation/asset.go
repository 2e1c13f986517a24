package vegetation

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// AssetKind discriminates the Asset variants in configuration files.
type AssetKind string

const (
	KindModel      AssetKind = "model"
	KindProcedural AssetKind = "procedural"
)

// Asset is what the renderer draws for each instance: either ModelBacked or
// ProceduralMesh. It is resolved once when the vegetation set is loaded.
type Asset interface {
	Kind() AssetKind
	validate() error
}

// ModelBacked draws a model, with one mesh name per LOD (index 0 is the
// finest), and an optional collider shape name.
type ModelBacked struct {
	MeshNamesPerLOD []string
	Collider        string
}

// Kind returns KindModel.
func (ModelBacked) Kind() AssetKind { return KindModel }

// MeshForLOD returns the mesh name for a LOD, reusing the coarsest mesh
// beyond the end of the list.
func (m ModelBacked) MeshForLOD(lod int) string {
	if len(m.MeshNamesPerLOD) == 0 {
		return ""
	}
	if lod < 0 {
		lod = 0
	}
	if lod >= len(m.MeshNamesPerLOD) {
		lod = len(m.MeshNamesPerLOD) - 1
	}
	return m.MeshNamesPerLOD[lod]
}

func (m ModelBacked) validate() error {
	if len(m.MeshNamesPerLOD) == 0 {
		return errors.New("model asset needs at least one mesh")
	}
	for i, name := range m.MeshNamesPerLOD {
		if name == "" {
			return fmt.Errorf("model asset mesh %d is empty", i)
		}
	}
	return nil
}

// ProceduralMesh names a mesh factory registered with the renderer.
type ProceduralMesh struct {
	Factory string
}

// Kind returns KindProcedural.
func (ProceduralMesh) Kind() AssetKind { return KindProcedural }

func (p ProceduralMesh) validate() error {
	if p.Factory == "" {
		return errors.New("procedural asset needs a factory")
	}
	return nil
}

// assetYAML is the flattened on-disk form of an Asset.
type assetYAML struct {
	Kind     AssetKind `yaml:"kind"`
	Meshes   []string  `yaml:"meshes,omitempty"`
	Collider string    `yaml:"collider,omitempty"`
	Factory  string    `yaml:"factory,omitempty"`
}

type typeYAML struct {
	Name         string    `yaml:"name"`
	Density      float64   `yaml:"density"`
	Height       Range     `yaml:"height"`
	Slope        Range     `yaml:"slope"`
	Scale        Range     `yaml:"scale"`
	PerAxisScale bool      `yaml:"per_axis_scale,omitempty"`
	Yaw          Range     `yaml:"yaw"`
	Asset        assetYAML `yaml:"asset"`
}

// UnmarshalYAML decodes a Type, resolving its asset from the kind field.
func (t *Type) UnmarshalYAML(value *yaml.Node) error {
	var raw typeYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}

	var asset Asset
	switch raw.Asset.Kind {
	case KindModel:
		asset = ModelBacked{MeshNamesPerLOD: raw.Asset.Meshes, Collider: raw.Asset.Collider}
	case KindProcedural:
		asset = ProceduralMesh{Factory: raw.Asset.Factory}
	default:
		return fmt.Errorf("%w: %s: unknown asset kind %q (line %d)", ErrInvalidType, raw.Name, raw.Asset.Kind, value.Line)
	}

	*t = Type{
		Name:         raw.Name,
		Density:      raw.Density,
		Height:       raw.Height,
		Slope:        raw.Slope,
		Scale:        raw.Scale,
		PerAxisScale: raw.PerAxisScale,
		Yaw:          raw.Yaw,
		Asset:        asset,
	}
	return nil
}

// MarshalYAML encodes a Type with a kind-tagged asset.
func (t Type) MarshalYAML() (interface{}, error) {
	raw := typeYAML{
		Name:         t.Name,
		Density:      t.Density,
		Height:       t.Height,
		Slope:        t.Slope,
		Scale:        t.Scale,
		PerAxisScale: t.PerAxisScale,
		Yaw:          t.Yaw,
	}
	switch a := t.Asset.(type) {
	case ModelBacked:
		raw.Asset = assetYAML{Kind: KindModel, Meshes: a.MeshNamesPerLOD, Collider: a.Collider}
	case ProceduralMesh:
		raw.Asset = assetYAML{Kind: KindProcedural, Factory: a.Factory}
	case nil:
	default:
		return nil, fmt.Errorf("%w: %s: unsupported asset %T", ErrInvalidType, t.Name, t.Asset)
	}
	return raw, nil
}
