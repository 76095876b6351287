package abicodec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"golang.org/x/crypto/sha3"

	"github.com/weisyn/ccip-gateway/pkg/types"
)

// ErrBadSignature 函数签名无法解析
var ErrBadSignature = errors.New("bad function signature")

// 签名中允许出现但不影响编码的关键字
var modifierKeywords = map[string]bool{
	"external":   true,
	"public":     true,
	"view":       true,
	"pure":       true,
	"payable":    true,
	"nonpayable": true,
	"virtual":    true,
	"override":   true,
}

var locationKeywords = map[string]bool{
	"memory":   true,
	"calldata": true,
	"storage":  true,
}

// Signature 解析后的函数签名
type Signature struct {
	Name        string
	Inputs      abi.Arguments
	Outputs     abi.Arguments
	InputTypes  []string // 规范化输入类型，如 uint256、(address,bool)[]
	OutputTypes []string
	Selector    types.Selector
}

// Canonical 返回参与选择器计算的规范文本 name(t1,t2,...)
func (s *Signature) Canonical() string {
	return s.Name + "(" + strings.Join(s.InputTypes, ",") + ")"
}

// String 返回规范化的完整签名
func (s *Signature) String() string {
	return s.Canonical() + " returns (" + strings.Join(s.OutputTypes, ",") + ")"
}

// ParseSignature 解析 Solidity 函数签名
//
// 接受形如 "function getBalance(address owner) external view returns (uint256)" 的文本，
// 参数名、数据位置关键字与多余空白会被忽略；returns 子句必须显式给出。
func ParseSignature(text string) (*Signature, error) {
	return parseSignature(text, true)
}

// ParseFunction 解析函数签名，returns 子句可省略
func ParseFunction(text string) (*Signature, error) {
	return parseSignature(text, false)
}

// SelectorFor 计算签名文本的4字节选择器
//
// 文本可以是完整签名，也可以只是 name(types)；计算前先规范化。
func SelectorFor(text string) (types.Selector, error) {
	sig, err := ParseFunction(text)
	if err != nil {
		return types.Selector{}, err
	}
	return sig.Selector, nil
}

// SelectorOf 对已规范化的 name(types) 文本做 keccak-256 并取前4字节
func SelectorOf(canonical string) types.Selector {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(canonical))
	var sel types.Selector
	copy(sel[:], h.Sum(nil)[:types.SelectorLength])
	return sel
}

// SignatureFromABI 从 JSON ABI 文档中解析指定函数
func SignatureFromABI(abiJSON string, method string) (*Signature, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid ABI JSON: %v", ErrBadSignature, err)
	}
	m, ok := parsed.Methods[method]
	if !ok {
		return nil, fmt.Errorf("%w: function %q not found in ABI", ErrBadSignature, method)
	}
	sig := &Signature{
		Name:        m.RawName,
		Inputs:      m.Inputs,
		Outputs:     m.Outputs,
		InputTypes:  argTypeStrings(m.Inputs),
		OutputTypes: argTypeStrings(m.Outputs),
	}
	copy(sig.Selector[:], m.ID)
	return sig, nil
}

// ParseTypes 解析逗号分隔的类型列表，如 "uint256,(bool,string)[]"
func ParseTypes(list string) (abi.Arguments, error) {
	nodes, err := parseParamList(list)
	if err != nil {
		return nil, err
	}
	return buildArguments(nodes)
}

func argTypeStrings(args abi.Arguments) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a.Type.String()
	}
	return out
}

func parseSignature(text string, requireReturns bool) (*Signature, error) {
	src := strings.TrimSpace(text)
	src = strings.TrimSuffix(src, ";")
	if rest, ok := cutKeyword(src, "function"); ok {
		src = rest
	}

	open := strings.IndexByte(src, '(')
	if open < 0 {
		return nil, fmt.Errorf("%w: missing parameter list in %q", ErrBadSignature, text)
	}
	name := strings.TrimSpace(src[:open])
	if !isIdentifier(name) {
		return nil, fmt.Errorf("%w: invalid function name %q", ErrBadSignature, name)
	}
	closeIdx, err := matchParen(src, open)
	if err != nil {
		return nil, err
	}
	inputs, err := parseParamList(src[open+1 : closeIdx])
	if err != nil {
		return nil, err
	}

	var outputs []*typeNode
	hasReturns := false
	rest := strings.TrimSpace(src[closeIdx+1:])
	for rest != "" {
		if r, ok := cutKeyword(rest, "returns"); ok {
			r = strings.TrimSpace(r)
			if !strings.HasPrefix(r, "(") {
				return nil, fmt.Errorf("%w: returns clause must be parenthesized", ErrBadSignature)
			}
			end, err := matchParen(r, 0)
			if err != nil {
				return nil, err
			}
			if outputs, err = parseParamList(r[1:end]); err != nil {
				return nil, err
			}
			hasReturns = true
			rest = strings.TrimSpace(r[end+1:])
			if rest != "" {
				return nil, fmt.Errorf("%w: unexpected trailing text %q", ErrBadSignature, rest)
			}
			break
		}
		word, r := nextWord(rest)
		if !modifierKeywords[word] {
			return nil, fmt.Errorf("%w: unexpected token %q", ErrBadSignature, word)
		}
		rest = r
	}
	if requireReturns && !hasReturns {
		return nil, fmt.Errorf("%w: missing returns clause in %q", ErrBadSignature, text)
	}

	sig := &Signature{Name: name}
	if sig.Inputs, err = buildArguments(inputs); err != nil {
		return nil, err
	}
	if sig.Outputs, err = buildArguments(outputs); err != nil {
		return nil, err
	}
	sig.InputTypes = canonicalList(inputs)
	sig.OutputTypes = canonicalList(outputs)
	sig.Selector = SelectorOf(sig.Canonical())
	return sig, nil
}

// typeNode 类型语法树节点
type typeNode struct {
	base  string      // 规范化基础类型；元组为 "tuple"
	comps []*typeNode // 元组成员
	dims  []int       // 数组维度，按书写顺序；-1 表示动态长度
}

func (n *typeNode) canonical() string {
	var b strings.Builder
	if n.base == "tuple" {
		b.WriteString("(")
		b.WriteString(strings.Join(canonicalList(n.comps), ","))
		b.WriteString(")")
	} else {
		b.WriteString(n.base)
	}
	writeDims(&b, n.dims)
	return b.String()
}

// abiTypeString 返回 abi.NewType 接受的类型串，元组写作 tuple
func (n *typeNode) abiTypeString() string {
	var b strings.Builder
	b.WriteString(n.base)
	writeDims(&b, n.dims)
	return b.String()
}

func (n *typeNode) components() []abi.ArgumentMarshaling {
	if n.base != "tuple" {
		return nil
	}
	out := make([]abi.ArgumentMarshaling, len(n.comps))
	for i, c := range n.comps {
		out[i] = abi.ArgumentMarshaling{
			Name:       fmt.Sprintf("f%d", i),
			Type:       c.abiTypeString(),
			Components: c.components(),
		}
	}
	return out
}

func writeDims(b *strings.Builder, dims []int) {
	for _, d := range dims {
		if d < 0 {
			b.WriteString("[]")
		} else {
			b.WriteString("[" + strconv.Itoa(d) + "]")
		}
	}
}

func canonicalList(nodes []*typeNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.canonical()
	}
	return out
}

func buildArguments(nodes []*typeNode) (abi.Arguments, error) {
	args := make(abi.Arguments, len(nodes))
	for i, n := range nodes {
		t, err := abi.NewType(n.abiTypeString(), "", n.components())
		if err != nil {
			return nil, fmt.Errorf("%w: type %s: %v", ErrBadSignature, n.canonical(), err)
		}
		args[i] = abi.Argument{Type: t}
	}
	return args, nil
}

// parseParamList 解析括号内的参数列表（不含括号）
func parseParamList(list string) ([]*typeNode, error) {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil, nil
	}
	parts, err := splitTopLevel(list)
	if err != nil {
		return nil, err
	}
	nodes := make([]*typeNode, 0, len(parts))
	for _, p := range parts {
		n, err := parseParam(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// parseParam 解析单个参数：类型 [数据位置] [参数名]
func parseParam(param string) (*typeNode, error) {
	if param == "" {
		return nil, fmt.Errorf("%w: empty parameter", ErrBadSignature)
	}
	node, rest, err := parseType(param)
	if err != nil {
		return nil, err
	}
	words := strings.Fields(rest)
	if node.base == "address" && len(node.dims) == 0 && len(words) > 0 && words[0] == "payable" {
		words = words[1:]
	}
	if len(words) > 0 && locationKeywords[words[0]] {
		words = words[1:]
	}
	switch len(words) {
	case 0:
	case 1:
		if !isIdentifier(words[0]) {
			return nil, fmt.Errorf("%w: invalid parameter name %q", ErrBadSignature, words[0])
		}
	default:
		return nil, fmt.Errorf("%w: cannot parse parameter %q", ErrBadSignature, param)
	}
	return node, nil
}

// parseType 解析类型前缀，返回节点与剩余文本
func parseType(s string) (*typeNode, string, error) {
	node := &typeNode{}
	if r, ok := cutKeyword(s, "tuple"); ok && strings.HasPrefix(strings.TrimSpace(r), "(") {
		s = strings.TrimSpace(r)
	}
	var rest string
	if strings.HasPrefix(s, "(") {
		end, err := matchParen(s, 0)
		if err != nil {
			return nil, "", err
		}
		comps, err := parseParamList(s[1:end])
		if err != nil {
			return nil, "", err
		}
		node.base = "tuple"
		node.comps = comps
		rest = s[end+1:]
	} else {
		i := 0
		for i < len(s) && isIdentByte(s[i]) {
			i++
		}
		base, err := normalizeElementary(s[:i])
		if err != nil {
			return nil, "", err
		}
		node.base = base
		rest = s[i:]
	}

	for {
		trimmed := strings.TrimLeft(rest, " \t")
		if !strings.HasPrefix(trimmed, "[") {
			break
		}
		end := strings.IndexByte(trimmed, ']')
		if end < 0 {
			return nil, "", fmt.Errorf("%w: unterminated array suffix", ErrBadSignature)
		}
		inner := strings.TrimSpace(trimmed[1:end])
		if inner == "" {
			node.dims = append(node.dims, -1)
		} else {
			k, err := strconv.Atoi(inner)
			if err != nil || k <= 0 {
				return nil, "", fmt.Errorf("%w: invalid array length %q", ErrBadSignature, inner)
			}
			node.dims = append(node.dims, k)
		}
		rest = trimmed[end+1:]
	}
	return node, rest, nil
}

// normalizeElementary 规范化基础类型：uint→uint256、int→int256、byte→bytes1
func normalizeElementary(t string) (string, error) {
	switch t {
	case "":
		return "", fmt.Errorf("%w: missing type", ErrBadSignature)
	case "uint":
		return "uint256", nil
	case "int":
		return "int256", nil
	case "byte":
		return "bytes1", nil
	case "bool", "address", "string", "bytes":
		return t, nil
	}
	switch {
	case strings.HasPrefix(t, "uint"):
		if validWidth(t[4:]) {
			return t, nil
		}
	case strings.HasPrefix(t, "int"):
		if validWidth(t[3:]) {
			return t, nil
		}
	case strings.HasPrefix(t, "bytes"):
		if n, err := strconv.Atoi(t[5:]); err == nil && n >= 1 && n <= 32 && t[5] != '0' {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported type %q", ErrBadSignature, t)
}

func validWidth(s string) bool {
	if s == "" || s[0] == '0' {
		return false
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 8 && n <= 256 && n%8 == 0
}

// splitTopLevel 按最外层逗号切分
func splitTopLevel(s string) ([]string, error) {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("%w: unbalanced parentheses", ErrBadSignature)
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("%w: unbalanced parentheses", ErrBadSignature)
	}
	return append(parts, s[start:]), nil
}

// matchParen 返回与 s[open] 处左括号匹配的右括号下标
func matchParen(s string, open int) (int, error) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("%w: unbalanced parentheses", ErrBadSignature)
}

// cutKeyword 去掉开头的关键字（关键字后须为空白、括号或结尾）
func cutKeyword(s, kw string) (string, bool) {
	if !strings.HasPrefix(s, kw) {
		return s, false
	}
	rest := s[len(kw):]
	if rest != "" && isIdentByte(rest[0]) {
		return s, false
	}
	return rest, true
}

func nextWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] != ' ' && s[i] != '\t' && s[i] != '(' {
		i++
	}
	if i == 0 && len(s) > 0 {
		i = 1
	}
	return s[:i], strings.TrimSpace(s[i:])
}

func isIdentifier(s string) bool {
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i]) {
			return false
		}
	}
	return true
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
