package cleaner

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sfomuseum/go-sfomuseum-spots/clean"
)

// CleanRequest is the event payload for the "clean-spots" Lambda function. Empty values are replaced by
// the -input and -output flags.
type CleanRequest struct {
	Input  string `json:"input,omitempty"`
	Output string `json:"output,omitempty"`
}

// LambdaResponse is the response payload for the "clean-spots" Lambda function.
type LambdaResponse struct {
	Input   string          `json:"input"`
	Output  string          `json:"output"`
	Counts  *clean.Counts   `json:"counts"`
	Probes  *clean.Probes   `json:"probes"`
	Elapsed string          `json:"elapsed"`
	Spots   json.RawMessage `json:"spots"`
}

func newLambdaHandler(cleaner *Cleaner, opts *RunOptions) func(context.Context, *CleanRequest) (*LambdaResponse, error) {

	handler := func(ctx context.Context, req *CleanRequest) (*LambdaResponse, error) {

		input := opts.Input
		output := opts.Output

		if req != nil && req.Input != "" {
			input = req.Input
		}

		if req != nil && req.Output != "" {
			output = req.Output
		}

		rsp, err := cleaner.Clean(ctx, input, output)

		if err != nil {
			return nil, fmt.Errorf("Failed to clean %s, %w", input, err)
		}

		lambda_rsp := &LambdaResponse{
			Input:   rsp.Input,
			Output:  rsp.Output,
			Counts:  rsp.Counts,
			Probes:  rsp.Probes,
			Elapsed: rsp.Elapsed,
			Spots:   json.RawMessage(rsp.Body),
		}

		return lambda_rsp, nil
	}

	return handler
}

func runLambda(ctx context.Context, cleaner *Cleaner, opts *RunOptions) error {

	handler := newLambdaHandler(cleaner, opts)
	lambda.Start(handler)
	return nil
}
