package common

import (
	"context"
	"fmt"
	"time"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
)

// CreateInputFunc defines how to build the operation input from the files read.
type CreateInputFunc[Input any] func(files []InputFile) (Input, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// OperationFunc is the work a command performs on its input.
type OperationFunc[Input, Output any] func(context.Context, Input) (Output, error)

// RunCommand encapsulates the common logic for file-based CLI commands:
// read and validate the inputs, run the operation, then format the output.
func RunCommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	operation OperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	return runCommand(ctx, logger, cmdConfig, args, createInput, operation, logDetails, NewOutputHandler(logger))
}

func runCommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	operation OperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
	outputHandler *OutputHandler,
) error {
	if logger == nil {
		logger = errors.NewDiscardLogger()
	}
	fileProcessor := NewFileProcessor(logger, cmdConfig.MaxFileSize)

	files, err := fileProcessor.ValidateAndReadFiles(args...)
	if err != nil {
		return err
	}

	input, err := createInput(files)
	if err != nil {
		return fmt.Errorf("failed to create input from file contents: %w", err)
	}

	if logDetails != nil {
		logDetails(input, cmdConfig)
	}

	start := time.Now()
	result, err := operation(ctx, input)
	if err != nil {
		return err
	}
	logger.Debug("Operation finished", "duration", time.Since(start))

	return outputHandler.HandleOutput(result, cmdConfig)
}
