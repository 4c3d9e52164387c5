package server

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zephyrtronium/calculator"
)

const (
	constantsURI = "calculator://constants"
	formulasURI  = "calculator://formulas"
)

var formulas = []string{
	"Area of Circle: A = πr²",
	"Area of Triangle: A = ½bh",
	"Quadratic Formula: x = (-b ± √(b²-4ac)) / 2a",
	"Pythagorean Theorem: a² + b² = c²",
	"Distance Formula: d = √[(x₂-x₁)² + (y₂-y₁)²]",
	"Slope Formula: m = (y₂-y₁) / (x₂-x₁)",
}

// reference constants are listed for convenience but cannot be named in
// expressions.
var reference = []struct {
	name string
	val  float64
}{
	{"φ (Golden Ratio)", math.Phi},
	{"√2 (Square Root of 2)", math.Sqrt2},
	{"√3 (Square Root of 3)", math.Sqrt(3)},
}

func constantsDoc() string {
	var b strings.Builder
	b.WriteString("# Mathematical Constants\n\n")
	b.WriteString("Usable by name in expressions:\n\n")
	for _, name := range calculator.Constants() {
		v, _ := calculator.Constant(name)
		fmt.Fprintf(&b, "- **%s**: %.11f\n", name, v)
	}
	b.WriteString("\nFor reference:\n\n")
	for _, c := range reference {
		fmt.Fprintf(&b, "- **%s**: %.11f\n", c.name, c.val)
	}
	return b.String()
}

func formulasDoc() string {
	var b strings.Builder
	b.WriteString("# Common Mathematical Formulas\n\n")
	for i, f := range formulas {
		fmt.Fprintf(&b, "%d. %s\n", i+1, f)
	}
	return b.String()
}

func (s *Server) registerResources() {
	doc := func(uri, text string) func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			s.log.DebugContext(ctx, "resource read", "uri", uri)
			return []mcp.ResourceContents{mcp.TextResourceContents{URI: uri, MIMEType: "text/markdown", Text: text}}, nil
		}
	}
	s.mcp.AddResource(mcp.NewResource(constantsURI, "Mathematical constants",
		mcp.WithResourceDescription("Constants the calculator knows by name, with their values"),
		mcp.WithMIMEType("text/markdown"),
	), doc(constantsURI, constantsDoc()))
	s.mcp.AddResource(mcp.NewResource(formulasURI, "Common formulas",
		mcp.WithResourceDescription("Common mathematical formulas"),
		mcp.WithMIMEType("text/markdown"),
	), doc(formulasURI, formulasDoc()))
}

const solverPrompt = `You are a mathematical problem solver. Please help solve this problem:

**Problem:** %s

**Structured Approach:**
1. **Understand the Problem**
   - What are we trying to find?
   - What information is given?
   - Are there any constraints or assumptions?

2. **Identify the Method**
   - What mathematical concepts apply?
   - Which formulas or techniques are relevant?
   - Is there a preferred approach?

3. **Step-by-step Solution**
   - Show each calculation clearly
   - Explain the reasoning
   - Verify each step

4. **Final Answer**
   - State the result clearly
   - Check if it makes sense
   - Consider alternative approaches if applicable

Please provide a detailed, educational solution.`

const checkerPrompt = `Please review and explain this mathematical calculation:

**Calculation:** %s

**Please provide:**
1. **Verification** - Is the calculation correct?
2. **Step-by-step breakdown** - Show how to arrive at the result
3. **Method explanation** - What mathematical principles are being used?
4. **Alternative approaches** - Are there other ways to solve this?
5. **Common pitfalls** - What mistakes should be avoided in similar calculations?

Provide an educational explanation that helps understand both the process and the underlying mathematics.`

func (s *Server) registerPrompts() {
	prompt := func(arg, format, desc string) func(context.Context, mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			v := req.Params.Arguments[arg]
			if strings.TrimSpace(v) == "" {
				return nil, fmt.Errorf("%s: argument %q is required", CodeInvalidArgument, arg)
			}
			text := fmt.Sprintf(format, v)
			return mcp.NewGetPromptResult(desc, []mcp.PromptMessage{
				mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
			}), nil
		}
	}
	s.mcp.AddPrompt(mcp.NewPrompt("math_problem_solver",
		mcp.WithPromptDescription("Structured approach to solving a math problem"),
		mcp.WithArgument("problem", mcp.ArgumentDescription("The problem to solve"), mcp.RequiredArgument()),
	), prompt("problem", solverPrompt, "Structured approach to solving a math problem"))
	s.mcp.AddPrompt(mcp.NewPrompt("calculation_checker",
		mcp.WithPromptDescription("Verify and explain a calculation"),
		mcp.WithArgument("calculation", mcp.ArgumentDescription("The calculation to check"), mcp.RequiredArgument()),
	), prompt("calculation", checkerPrompt, "Verify and explain a calculation"))
}
