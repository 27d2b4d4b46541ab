package interactive

import (
	"fmt"
	"strings"

	"github.com/sosoyan/aton/universe"
)

// Shader selects the override shader assigned to the scene's shapes.
type Shader int

const (
	// ShaderNone restores the shapes' own shaders.
	ShaderNone Shader = iota
	ShaderChecker
	ShaderGrey
	ShaderMirror
	ShaderNormal
	ShaderOcclusion
	ShaderUV
)

var shaderNames = []string{"Disabled", "Checker", "Grey", "Mirror", "Normal", "Occlusion", "UV"}

func (s Shader) String() string {
	if s < 0 || int(s) >= len(shaderNames) {
		return fmt.Sprintf("Shader(%d)", int(s))
	}
	return shaderNames[s]
}

// ShaderNames returns the labels of the shader override menu.
func ShaderNames() []string {
	return append([]string(nil), shaderNames...)
}

// ParseShader looks up a shader override by its menu label.
func ParseShader(name string) (Shader, error) {
	for i, label := range shaderNames {
		if strings.EqualFold(label, name) {
			return Shader(i), nil
		}
	}
	return ShaderNone, fmt.Errorf("%w: %q", ErrUnknownShader, name)
}

// The override shader network created in a universe.
type overrideShaders struct {
	byShader map[Shader]*universe.Node

	// Drives the checker texture's repeat.
	place *universe.Node
}

func newOverrideShaders(u *universe.Universe) (*overrideShaders, error) {
	var err error
	node := func(entry string) *universe.Node {
		if err != nil {
			return nil
		}
		var n *universe.Node
		n, err = u.NewNode(entry)
		return n
	}

	checker, checkerTex, place := node("standard"), node("MayaChecker"), node("MayaPlace2DTexture")
	grey, mirror := node("standard"), node("standard")
	normal, occlusion, uv := node("utility"), node("utility"), node("utility")
	if err != nil {
		return nil, err
	}

	checkerTex.Link("uvCoord", place)
	checker.Link("Kd", checkerTex)

	grey.SetFlt("Kd", 0.225)
	grey.SetFlt("Ks", 1)
	grey.SetFlt("specular_roughness", 0.6)
	grey.SetBool("specular_Fresnel", true)
	grey.SetBool("Fresnel_use_IOR", true)
	grey.SetFlt("IOR", 1.1)

	mirror.SetFlt("Kd", 0)
	mirror.SetFlt("Ks", 1)
	mirror.SetFlt("specular_roughness", 0)
	mirror.SetBool("specular_Fresnel", true)
	mirror.SetFlt("Ksn", 0.6)

	normal.SetInt("shade_mode", 2)
	normal.SetInt("color_mode", 2)
	occlusion.SetInt("shade_mode", 3)
	uv.SetInt("shade_mode", 2)
	uv.SetInt("color_mode", 5)

	byShader := map[Shader]*universe.Node{
		ShaderChecker:   checker,
		ShaderGrey:      grey,
		ShaderMirror:    mirror,
		ShaderNormal:    normal,
		ShaderOcclusion: occlusion,
		ShaderUV:        uv,
	}
	return &overrideShaders{byShader: byShader, place: place}, nil
}

// Node returns the shader node for s. ShaderNone has no node.
func (o *overrideShaders) Node(s Shader) (*universe.Node, error) {
	if s == ShaderNone {
		return nil, nil
	}
	n, ok := o.byShader[s]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShader, int(s))
	}
	return n, nil
}
