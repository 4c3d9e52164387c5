package server

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zephyrtronium/calculator"
)

// CalculateInput is the input to the calculate tool.
type CalculateInput struct {
	Expression string `json:"expression"`
	Variable   string `json:"variable,omitempty"`
}

// CalculateOutput is the response of the calculate tool.
type CalculateOutput struct {
	Envelope
	Kind   calculator.Kind    `json:"kind"`
	Result *calculator.Result `json:"result,omitempty"`
	Batch  []BatchItem        `json:"batch,omitempty"`
}

// ExpressionInput is the input to the evaluate_expression tool.
type ExpressionInput struct {
	Expression string `json:"expression"`
}

// ExpressionOutput is the response of the evaluate_expression tool.
type ExpressionOutput struct {
	Envelope
	Expression string           `json:"expression"`
	Result     calculator.Value `json:"result"`
	Steps      []string         `json:"steps"`
}

// EquationInput is the input to the solve_linear_equation tool.
type EquationInput struct {
	Equation string `json:"equation"`
	Variable string `json:"variable,omitempty"`
}

// EquationOutput is the response of the solve_linear_equation tool.
type EquationOutput struct {
	Envelope
	Equation string              `json:"equation"`
	Variable string              `json:"variable"`
	Result   float64             `json:"result"`
	Solution calculator.Solution `json:"solution"`
	Steps    []string            `json:"steps"`
}

// StatisticsInput is the input to the statistics tool.
type StatisticsInput struct {
	Numbers   []float64 `json:"numbers"`
	Operation string    `json:"operation"`
}

// StatisticsOutput is the response of the statistics tool. Summary is set
// only for the summary operation, which leaves Result zero.
type StatisticsOutput struct {
	Envelope
	Result  float64             `json:"result"`
	Summary *calculator.Summary `json:"summary,omitempty"`
	Data    []float64           `json:"data"`
	Count   int                 `json:"count"`
}

// opSummary is the statistics operation that computes every statistic.
const opSummary = "summary"

func statisticOps() []string {
	return append(append([]string(nil), calculator.StatisticNames...), opSummary)
}

// BatchInput is the input to the batch_calculations tool.
type BatchInput struct {
	Expressions []string `json:"expressions"`
	Variable    string   `json:"variable,omitempty"`
}

// BatchItem is the outcome of one entry of a batch. Exactly one of Result and
// Error is set.
type BatchItem struct {
	Index  int                `json:"index"`
	Source string             `json:"source"`
	Result *calculator.Result `json:"result,omitempty"`
	Error  string             `json:"error,omitempty"`
	Code   string             `json:"code,omitempty"`
}

// BatchOutput is the response of the batch_calculations tool.
type BatchOutput struct {
	Envelope
	Results   []BatchItem `json:"results"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// NumbersInput is the input to the add, subtract, and multiply tools.
type NumbersInput struct {
	Numbers []float64 `json:"numbers"`
}

// DivideInput is the input to the divide tool.
type DivideInput struct {
	Numerator   *float64 `json:"numerator"`
	Denominator *float64 `json:"denominator"`
}

// PowerInput is the input to the power tool.
type PowerInput struct {
	Base     *float64 `json:"base"`
	Exponent *float64 `json:"exponent"`
}

// ArithmeticOutput is the response of the direct arithmetic tools.
type ArithmeticOutput struct {
	Envelope
	Result  float64   `json:"result"`
	Numbers []float64 `json:"numbers"`
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("calculate",
		mcp.WithDescription("Evaluate an arithmetic expression, solve a linear equation such as 2x + 3 = 7, or run several of either separated by semicolons."),
		mcp.WithString("expression", mcp.Required(), mcp.Description("Expression, equation, or ;-separated batch")),
		mcp.WithString("variable", mcp.DefaultString("x"), mcp.Description("Variable to solve equations for")),
	), mcp.NewTypedToolHandler(s.handleCalculate))

	s.mcp.AddTool(mcp.NewTool("evaluate_expression",
		mcp.WithDescription("Evaluate an arithmetic expression using + - * / % **, parentheses, lists, the functions "+
			strings.Join(calculator.Functions(), ", ")+", and the constants "+strings.Join(calculator.Constants(), ", ")+"."),
		mcp.WithString("expression", mcp.Required(), mcp.Description("Arithmetic expression")),
	), mcp.NewTypedToolHandler(s.handleEvaluate))

	s.mcp.AddTool(mcp.NewTool("solve_linear_equation",
		mcp.WithDescription("Solve a linear equation in one variable."),
		mcp.WithString("equation", mcp.Required(), mcp.Description("Equation with exactly one =, e.g. 3(x - 1) = 2x + 4")),
		mcp.WithString("variable", mcp.DefaultString("x"), mcp.Description("Variable to solve for")),
	), mcp.NewTypedToolHandler(s.handleSolve))

	s.mcp.AddTool(mcp.NewTool("statistics",
		mcp.WithDescription("Compute a statistic of a list of numbers."),
		mcp.WithArray("numbers", mcp.Required(), mcp.Items(map[string]any{"type": "number"}), mcp.Description("Data")),
		mcp.WithString("operation", mcp.Required(), mcp.Enum(statisticOps()...),
			mcp.Description("Statistic to compute, or summary for all of them")),
		mcp.WithOutputSchema[StatisticsOutput](),
	), mcp.NewTypedToolHandler(s.handleStatistics))

	s.mcp.AddTool(mcp.NewTool("batch_calculations",
		mcp.WithDescription("Calculate several expressions or equations independently. A failure in one does not affect the others."),
		mcp.WithArray("expressions", mcp.Required(), mcp.Items(map[string]any{"type": "string"}), mcp.Description("Expressions or equations")),
		mcp.WithString("variable", mcp.DefaultString("x"), mcp.Description("Variable to solve equations for")),
	), mcp.NewTypedToolHandler(s.handleBatch))

	numbers := func(name, desc string, h func(context.Context, mcp.CallToolRequest, NumbersInput) (*mcp.CallToolResult, error)) {
		s.mcp.AddTool(mcp.NewTool(name,
			mcp.WithDescription(desc),
			mcp.WithArray("numbers", mcp.Required(), mcp.Items(map[string]any{"type": "number"}), mcp.Description("Operands in order")),
			mcp.WithOutputSchema[ArithmeticOutput](),
		), mcp.NewTypedToolHandler(h))
	}
	numbers("add", "Add a list of numbers.", s.handleAdd)
	numbers("subtract", "Subtract each number after the first from the first.", s.handleSubtract)
	numbers("multiply", "Multiply a list of numbers.", s.handleMultiply)

	s.mcp.AddTool(mcp.NewTool("divide",
		mcp.WithDescription("Divide two numbers."),
		mcp.WithNumber("numerator", mcp.Required()),
		mcp.WithNumber("denominator", mcp.Required()),
		mcp.WithOutputSchema[ArithmeticOutput](),
	), mcp.NewTypedToolHandler(s.handleDivide))

	s.mcp.AddTool(mcp.NewTool("power",
		mcp.WithDescription("Raise a base to an exponent."),
		mcp.WithNumber("base", mcp.Required()),
		mcp.WithNumber("exponent", mcp.Required()),
		mcp.WithOutputSchema[ArithmeticOutput](),
	), mcp.NewTypedToolHandler(s.handlePower))
}

func (s *Server) handleCalculate(ctx context.Context, req mcp.CallToolRequest, in CalculateInput) (*mcp.CallToolResult, error) {
	return s.run(ctx, "calculate", func() (any, string, error) {
		out, err := calculator.Calculate(in.Expression, in.Variable, s.opts...)
		if err != nil {
			return nil, "", err
		}
		r := CalculateOutput{Envelope: s.envelope("calculate"), Kind: out.Kind, Result: out.Result}
		if out.Kind != calculator.KindBatch {
			return r, resultText(out.Result), nil
		}
		var text strings.Builder
		r.Batch = make([]BatchItem, len(out.Batch))
		for i, e := range out.Batch {
			r.Batch[i] = batchItem(e)
			fmt.Fprintf(&text, "%d. %s\n", i+1, itemText(r.Batch[i]))
		}
		return r, text.String(), nil
	})
}

func (s *Server) handleEvaluate(ctx context.Context, req mcp.CallToolRequest, in ExpressionInput) (*mcp.CallToolResult, error) {
	return s.run(ctx, "evaluate_expression", func() (any, string, error) {
		e, err := calculator.ParseString(in.Expression, s.opts...)
		if err != nil {
			return nil, "", err
		}
		v, err := e.Eval()
		if err != nil {
			return nil, "", err
		}
		r := ExpressionOutput{
			Envelope:   s.envelope("mixed_expression"),
			Expression: in.Expression,
			Result:     v,
			Steps:      expressionSteps(in.Expression, e, v),
		}
		return r, in.Expression + " = " + v.String(), nil
	})
}

func (s *Server) handleSolve(ctx context.Context, req mcp.CallToolRequest, in EquationInput) (*mcp.CallToolResult, error) {
	if in.Variable == "" {
		in.Variable = "x"
	}
	return s.run(ctx, "solve_linear_equation", func() (any, string, error) {
		sol, err := calculator.SolveDetail(in.Equation, in.Variable, s.opts...)
		if err != nil {
			return nil, "", err
		}
		r := EquationOutput{
			Envelope: s.envelope("linear_equation"),
			Equation: in.Equation,
			Variable: in.Variable,
			Result:   sol.Value,
			Solution: *sol,
			Steps:    equationSteps(in.Equation, sol),
		}
		return r, in.Variable + " = " + calculator.Scalar(sol.Value).String(), nil
	})
}

func (s *Server) handleStatistics(ctx context.Context, req mcp.CallToolRequest, in StatisticsInput) (*mcp.CallToolResult, error) {
	return s.run(ctx, "statistics", func() (any, string, error) {
		if in.Operation == opSummary {
			sum, err := calculator.Statistics(in.Numbers)
			if err != nil {
				return nil, "", err
			}
			r := StatisticsOutput{
				Envelope: s.envelope("statistics_summary"),
				Summary:  &sum,
				Data:     in.Numbers,
				Count:    sum.Count,
			}
			text := fmt.Sprintf("count = %d, mean = %v, median = %v, mode = %v, stdev = %v", sum.Count,
				calculator.Scalar(sum.Mean), calculator.Scalar(sum.Median), calculator.Scalar(sum.Mode), calculator.Scalar(sum.Stdev))
			return r, text, nil
		}
		x, err := calculator.Statistic(in.Operation, in.Numbers)
		if err != nil {
			return nil, "", err
		}
		r := StatisticsOutput{
			Envelope: s.envelope("statistics_" + in.Operation),
			Result:   x,
			Data:     in.Numbers,
			Count:    len(in.Numbers),
		}
		return r, in.Operation + " = " + calculator.Scalar(x).String(), nil
	})
}

func (s *Server) handleBatch(ctx context.Context, req mcp.CallToolRequest, in BatchInput) (*mcp.CallToolResult, error) {
	return s.run(ctx, "batch_calculations", func() (any, string, error) {
		entries, err := calculator.RunSegments(in.Expressions, in.Variable, s.opts...)
		if err != nil {
			return nil, "", err
		}
		r := BatchOutput{Envelope: s.envelope("batch"), Results: make([]BatchItem, len(entries))}
		for i, e := range entries {
			r.Results[i] = batchItem(e)
			if e.Err != nil {
				r.Failed++
			} else {
				r.Succeeded++
			}
		}
		return r, fmt.Sprintf("%d succeeded, %d failed", r.Succeeded, r.Failed), nil
	})
}

func (s *Server) handleAdd(ctx context.Context, req mcp.CallToolRequest, in NumbersInput) (*mcp.CallToolResult, error) {
	return s.run(ctx, "add", func() (any, string, error) {
		v, err := calculator.Apply("sum", calculator.List(in.Numbers...))
		if err != nil {
			return nil, "", err
		}
		x, _ := v.Float()
		return s.arithmetic("addition", x, in.Numbers)
	})
}

func (s *Server) handleSubtract(ctx context.Context, req mcp.CallToolRequest, in NumbersInput) (*mcp.CallToolResult, error) {
	return s.run(ctx, "subtract", func() (any, string, error) {
		if len(in.Numbers) == 0 {
			return nil, "", argError("at least one number is required")
		}
		x := in.Numbers[0]
		for _, y := range in.Numbers[1:] {
			x -= y
		}
		return s.arithmetic("subtraction", x, in.Numbers)
	})
}

func (s *Server) handleMultiply(ctx context.Context, req mcp.CallToolRequest, in NumbersInput) (*mcp.CallToolResult, error) {
	return s.run(ctx, "multiply", func() (any, string, error) {
		x := 1.0
		for _, y := range in.Numbers {
			x *= y
		}
		return s.arithmetic("multiplication", x, in.Numbers)
	})
}

func (s *Server) handleDivide(ctx context.Context, req mcp.CallToolRequest, in DivideInput) (*mcp.CallToolResult, error) {
	return s.run(ctx, "divide", func() (any, string, error) {
		if in.Numerator == nil || in.Denominator == nil {
			return nil, "", argError("numerator and denominator are required")
		}
		n, d := *in.Numerator, *in.Denominator
		if d == 0 {
			return nil, "", &calculator.EvalError{Kind: calculator.DivisionByZero, Func: "divide"}
		}
		return s.arithmetic("division", n/d, []float64{n, d})
	})
}

func (s *Server) handlePower(ctx context.Context, req mcp.CallToolRequest, in PowerInput) (*mcp.CallToolResult, error) {
	return s.run(ctx, "power", func() (any, string, error) {
		if in.Base == nil || in.Exponent == nil {
			return nil, "", argError("base and exponent are required")
		}
		b, e := *in.Base, *in.Exponent
		v, err := calculator.Apply("pow", calculator.Scalar(b), calculator.Scalar(e))
		if err != nil {
			return nil, "", err
		}
		x, _ := v.Float()
		return s.arithmetic("power", x, []float64{b, e})
	})
}

// arithmetic builds the response of a direct arithmetic tool.
func (s *Server) arithmetic(op string, x float64, numbers []float64) (any, string, error) {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return nil, "", &calculator.EvalError{Kind: calculator.Overflow, Func: op}
	}
	if numbers == nil {
		numbers = []float64{}
	}
	return ArithmeticOutput{Envelope: s.envelope(op), Result: x, Numbers: numbers}, op + " = " + calculator.Scalar(x).String(), nil
}

func batchItem(e calculator.BatchEntry) BatchItem {
	b := BatchItem{Index: e.Index, Source: e.Source, Result: e.Result}
	if e.Err != nil {
		b.Error = e.Err.Error()
		b.Code = errorCode(e.Err)
	}
	return b
}

func resultText(r *calculator.Result) string {
	if r.Kind == calculator.KindEquation {
		return r.Var + " = " + r.Value.String()
	}
	return r.Source + " = " + r.Value.String()
}

func itemText(b BatchItem) string {
	if b.Result == nil {
		return b.Source + ": " + b.Code + ": " + b.Error
	}
	return resultText(b.Result)
}
