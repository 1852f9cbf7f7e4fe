package loaders

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/anthropics/go-tracer-core/pkg/core"
)

// Statement is one parsed PBRT directive: its type ("Shape", "Material",
// ...), an optional quoted subtype ("sphere", "matte", ...), and its
// named parameters.
type Statement struct {
	Type          string
	Subtype       string
	Parameters    map[string]Param
	MaterialIndex int // for Shape statements: index into the enclosing AttributeBlock's Materials when it has any, else into Scene.Materials; -1 if none
}

// Param is a single named PBRT parameter with its declared type and raw
// string values, left unparsed until a caller asks for a specific shape
// via GetFloatParam/GetRGBParam/etc.
type Param struct {
	Type   string
	Values []string
}

// Scene is the flattened result of parsing a PBRT file: pre-WorldBegin
// camera/film/sampler/integrator directives plus every world-block
// statement, grouped by AttributeBegin/AttributeEnd block so a builder
// can resolve per-shape material/transform scope.
type Scene struct {
	Camera     *Statement
	LookAt     *core.Vec3
	LookAtTo   *core.Vec3
	LookAtUp   *core.Vec3
	Film       *Statement
	Sampler    *Statement
	Integrator *Statement

	Materials    []Statement
	Shapes       []Statement
	LightSources []Statement
	Transforms   []Statement
	Attributes   []AttributeBlock
}

// AttributeBlock is the statements accumulated between one
// AttributeBegin/AttributeEnd pair.
type AttributeBlock struct {
	Materials    []Statement
	Shapes       []Statement
	LightSources []Statement
	Transforms   []Statement
}

type graphicsState struct {
	MaterialIndex   int
	AreaLightSource *Statement
}

// pbrtParser holds the mutable state of a single parse pass: the
// attribute-block/graphics-state stacks and the raw lines accumulated
// for the statement currently being assembled (PBRT statements may span
// multiple lines).
type pbrtParser struct {
	scene                *Scene
	attributeStack       []*AttributeBlock
	stateStack           []graphicsState
	currentMaterialIndex int
	inWorld              bool
	statementLines       []string
}

// ParsePBRT parses PBRT scene-description content from r.
func ParsePBRT(r io.Reader) (*Scene, error) {
	p := newPBRTParser()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := p.processLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := p.finalize(); err != nil {
		return nil, err
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading PBRT input")
	}
	return p.scene, nil
}

// LoadPBRT opens and parses a PBRT file from disk, restricted to paths
// containing a scenes/ directory or lying under the system temp
// directory, to guard against path traversal from untrusted scene-name
// input (per the CLI's --scene flag).
func LoadPBRT(filename string) (*Scene, error) {
	if err := validatePBRTPath(filename); err != nil {
		return nil, err
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening PBRT file %q", filename)
	}
	defer f.Close()
	return ParsePBRT(f)
}

func newPBRTParser() *pbrtParser {
	return &pbrtParser{
		scene:                &Scene{},
		currentMaterialIndex: -1,
	}
}

func (p *pbrtParser) currentAttribute() *AttributeBlock {
	if len(p.attributeStack) == 0 {
		return nil
	}
	return p.attributeStack[len(p.attributeStack)-1]
}

func (p *pbrtParser) flush(context string) error {
	if len(p.statementLines) == 0 {
		return nil
	}
	full := strings.Join(p.statementLines, " ")
	stmt, err := parsePBRTStatement(full)
	if err != nil {
		return errors.Wrapf(err, "parsing statement %s %q", context, full)
	}
	p.statementLines = nil
	return p.route(stmt)
}

func (p *pbrtParser) processLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	switch line {
	case "WorldBegin":
		if err := p.flush("before WorldBegin"); err != nil {
			return err
		}
		p.inWorld = true
		return nil
	case "WorldEnd":
		if err := p.flush("before WorldEnd"); err != nil {
			return err
		}
		p.inWorld = false
		return nil
	case "AttributeBegin":
		return p.attributeBegin()
	case "AttributeEnd":
		return p.attributeEnd()
	}

	if isPBRTStatementStart(line) {
		if err := p.flush(""); err != nil {
			return err
		}
		p.statementLines = []string{line}
		return nil
	}

	if len(p.statementLines) == 0 {
		return errors.Errorf("unexpected continuation line: %s", line)
	}
	p.statementLines = append(p.statementLines, line)
	return nil
}

func (p *pbrtParser) attributeBegin() error {
	if err := p.flush("before AttributeBegin"); err != nil {
		return err
	}
	state := graphicsState{MaterialIndex: p.currentMaterialIndex}
	if len(p.stateStack) > 0 {
		state.AreaLightSource = p.stateStack[len(p.stateStack)-1].AreaLightSource
	}
	p.stateStack = append(p.stateStack, state)
	p.attributeStack = append(p.attributeStack, &AttributeBlock{})
	return nil
}

func (p *pbrtParser) attributeEnd() error {
	if err := p.flush("before AttributeEnd"); err != nil {
		return err
	}
	if len(p.attributeStack) > 0 {
		block := p.attributeStack[len(p.attributeStack)-1]
		p.scene.Attributes = append(p.scene.Attributes, *block)
		p.attributeStack = p.attributeStack[:len(p.attributeStack)-1]
	}
	if len(p.stateStack) > 0 {
		restored := p.stateStack[len(p.stateStack)-1]
		p.currentMaterialIndex = restored.MaterialIndex
		p.stateStack = p.stateStack[:len(p.stateStack)-1]
	}
	return nil
}

func (p *pbrtParser) finalize() error {
	return p.flush("at end of file")
}

// attachAreaLight copies emission parameters from an active
// AreaLightSource onto a shape statement and tags it so a scene builder
// treats the shape as a light as well as a surface.
func attachAreaLight(stmt *Statement, areaLight *Statement) {
	if stmt.Parameters == nil {
		stmt.Parameters = make(map[string]Param)
	}
	stmt.Parameters["_areaLight"] = Param{Type: "bool", Values: []string{"true"}}
	for name, param := range areaLight.Parameters {
		if name == "L" || name == "power" {
			stmt.Parameters[name] = param
		}
	}
}

func (p *pbrtParser) route(stmt *Statement) error {
	if stmt.Type == "LookAt" {
		return parsePBRTLookAt(stmt, p.scene)
	}

	var activeAreaLight *Statement
	if len(p.stateStack) > 0 {
		activeAreaLight = p.stateStack[len(p.stateStack)-1].AreaLightSource
	}

	if block := p.currentAttribute(); block != nil {
		switch stmt.Type {
		case "Material":
			block.Materials = append(block.Materials, *stmt)
		case "Shape":
			if len(block.Materials) > 0 {
				stmt.MaterialIndex = len(block.Materials) - 1
			} else {
				stmt.MaterialIndex = p.currentMaterialIndex
			}
			if activeAreaLight != nil {
				attachAreaLight(stmt, activeAreaLight)
			}
			block.Shapes = append(block.Shapes, *stmt)
		case "LightSource":
			block.LightSources = append(block.LightSources, *stmt)
		case "AreaLightSource":
			if len(p.stateStack) > 0 {
				p.stateStack[len(p.stateStack)-1].AreaLightSource = stmt
			}
			block.LightSources = append(block.LightSources, *stmt)
		case "Translate", "Rotate", "Scale", "Transform":
			block.Transforms = append(block.Transforms, *stmt)
		}
		return nil
	}

	if !p.inWorld {
		switch stmt.Type {
		case "Camera":
			p.scene.Camera = stmt
		case "Film":
			p.scene.Film = stmt
		case "Sampler":
			p.scene.Sampler = stmt
		case "Integrator":
			p.scene.Integrator = stmt
		}
		return nil
	}

	switch stmt.Type {
	case "Material":
		p.scene.Materials = append(p.scene.Materials, *stmt)
		p.currentMaterialIndex = len(p.scene.Materials) - 1
	case "Shape":
		stmt.MaterialIndex = p.currentMaterialIndex
		if activeAreaLight != nil {
			attachAreaLight(stmt, activeAreaLight)
		}
		p.scene.Shapes = append(p.scene.Shapes, *stmt)
	case "LightSource":
		p.scene.LightSources = append(p.scene.LightSources, *stmt)
	case "AreaLightSource":
		if len(p.stateStack) > 0 {
			p.stateStack[len(p.stateStack)-1].AreaLightSource = stmt
		}
		p.scene.LightSources = append(p.scene.LightSources, *stmt)
	case "Translate", "Rotate", "Scale", "Transform":
		p.scene.Transforms = append(p.scene.Transforms, *stmt)
	}
	return nil
}

func validatePBRTPath(filename string) error {
	if filename == "" {
		return errors.New("filename cannot be empty")
	}
	clean := filepath.Clean(filename)
	if !strings.Contains(clean, "scenes/") && !strings.HasPrefix(clean, os.TempDir()) {
		return errors.Errorf("file path must be in scenes/ directory: %s", filename)
	}
	if strings.Contains(clean, "..") && !strings.Contains(clean, "scenes/") {
		return errors.New("invalid file path: directory traversal not allowed")
	}
	if !strings.HasSuffix(strings.ToLower(clean), ".pbrt") {
		return errors.New("invalid file type: only .pbrt files are allowed")
	}
	if len(clean) > 512 {
		return errors.New("file path too long: maximum 512 characters allowed")
	}
	if strings.Contains(filename, "\x00") {
		return errors.New("invalid file path: null bytes not allowed")
	}
	return nil
}

func parsePBRTLookAt(stmt *Statement, scene *Scene) error {
	values := stmt.Parameters["values"].Values
	if len(stmt.Parameters) != 1 || len(values) != 9 {
		return errors.New("LookAt requires 9 values")
	}
	nums := make([]float64, 9)
	for i, v := range values {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid LookAt value %q", v)
		}
		nums[i] = n
	}
	scene.LookAt = &core.Vec3{X: nums[0], Y: nums[1], Z: nums[2]}
	scene.LookAtTo = &core.Vec3{X: nums[3], Y: nums[4], Z: nums[5]}
	scene.LookAtUp = &core.Vec3{X: nums[6], Y: nums[7], Z: nums[8]}
	return nil
}

// tokenizePBRT splits a line into tokens, treating quoted strings and
// bracketed arrays as atomic tokens.
func tokenizePBRT(line string) []string {
	var tokens []string
	var cur strings.Builder
	inQuotes, inBrackets := false, false

	for _, ch := range line {
		switch ch {
		case '"':
			if !inBrackets {
				cur.WriteRune(ch)
				if inQuotes {
					tokens = append(tokens, cur.String())
					cur.Reset()
				}
				inQuotes = !inQuotes
			} else {
				cur.WriteRune(ch)
			}
		case '[':
			if !inQuotes {
				if cur.Len() > 0 {
					tokens = append(tokens, cur.String())
					cur.Reset()
				}
				cur.WriteRune(ch)
				inBrackets = true
			} else {
				cur.WriteRune(ch)
			}
		case ']':
			if !inQuotes && inBrackets {
				cur.WriteRune(ch)
				tokens = append(tokens, cur.String())
				cur.Reset()
				inBrackets = false
			} else {
				cur.WriteRune(ch)
			}
		case ' ', '\t':
			if inQuotes || inBrackets {
				cur.WriteRune(ch)
			} else if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(ch)
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

func parsePBRTStatement(line string) (*Statement, error) {
	if strings.HasPrefix(line, "LookAt") {
		return &Statement{Type: "LookAt", Parameters: map[string]Param{
			"values": {Type: "float", Values: strings.Fields(line[len("LookAt"):])},
		}}, nil
	}
	for _, t := range []string{"Translate", "Rotate", "Scale", "Transform"} {
		if strings.HasPrefix(line, t) {
			return &Statement{Type: t, Parameters: map[string]Param{
				"values": {Type: "float", Values: strings.Fields(line[len(t):])},
			}}, nil
		}
	}

	parts := tokenizePBRT(line)
	if len(parts) < 1 {
		return nil, errors.New("invalid statement format")
	}

	stmt := &Statement{Type: parts[0], Parameters: make(map[string]Param)}
	if len(parts) > 1 && strings.HasPrefix(parts[1], "\"") && strings.HasSuffix(parts[1], "\"") {
		stmt.Subtype = strings.Trim(parts[1], "\"")
		parts = parts[2:]
	} else {
		parts = parts[1:]
	}

	i := 0
	for i < len(parts) {
		if !strings.HasPrefix(parts[i], "\"") {
			i++
			continue
		}
		paramParts := strings.Fields(strings.Trim(parts[i], "\""))
		if len(paramParts) != 2 {
			i++
			continue
		}
		paramType, paramName := paramParts[0], paramParts[1]
		i++

		var values []string
		if i < len(parts) {
			if strings.HasPrefix(parts[i], "[") && strings.HasSuffix(parts[i], "]") {
				values = strings.Fields(strings.Trim(parts[i], "[] "))
			} else {
				values = []string{parts[i]}
			}
			i++
		}
		stmt.Parameters[paramName] = Param{Type: paramType, Values: values}
	}
	return stmt, nil
}

func isPBRTStatementStart(line string) bool {
	for _, s := range []string{
		"Camera", "Film", "Sampler", "Integrator", "LookAt",
		"Material", "Shape", "LightSource", "AreaLightSource",
		"Translate", "Rotate", "Scale", "Transform",
		"ReverseOrientation", "Attribute",
	} {
		if strings.HasPrefix(line, s+" ") || line == s {
			return true
		}
	}
	return false
}

// GetFloatParam extracts a single float parameter.
func (stmt *Statement) GetFloatParam(name string) (float64, bool) {
	p, ok := stmt.Parameters[name]
	if !ok || len(p.Values) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(p.Values[0], 64)
	return v, err == nil
}

// GetRGBParam extracts a 3-component color parameter.
func (stmt *Statement) GetRGBParam(name string) (core.Vec3, bool) {
	p, ok := stmt.Parameters[name]
	if !ok || len(p.Values) < 3 {
		return core.Vec3{}, false
	}
	r, e1 := strconv.ParseFloat(p.Values[0], 64)
	g, e2 := strconv.ParseFloat(p.Values[1], 64)
	b, e3 := strconv.ParseFloat(p.Values[2], 64)
	if e1 != nil || e2 != nil || e3 != nil {
		return core.Vec3{}, false
	}
	return core.Vec3{X: r, Y: g, Z: b}, true
}

// GetPoint3Param extracts a 3-component point parameter.
func (stmt *Statement) GetPoint3Param(name string) (core.Vec3, bool) {
	return stmt.GetRGBParam(name)
}

// GetStringParam extracts a single string parameter.
func (stmt *Statement) GetStringParam(name string) (string, bool) {
	p, ok := stmt.Parameters[name]
	if !ok || len(p.Values) == 0 {
		return "", false
	}
	return p.Values[0], true
}

// IsAreaLight reports whether a Shape statement was marked as an area
// light by an enclosing AreaLightSource directive.
func (stmt *Statement) IsAreaLight() bool {
	p, ok := stmt.Parameters["_areaLight"]
	return ok && len(p.Values) > 0 && p.Values[0] == "true"
}
