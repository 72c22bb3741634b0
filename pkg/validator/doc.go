/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package validator checks a command invocation's arguments against a
// parameter schema before any monitoring command is issued.
//
// # Pipeline
//
// Each argument is processed left to right:
//
//	tokenize   "-h=web01,web02" -> switch "-h", raw "web01,web02"
//	split      raw value on the switch's delimiters
//	pattern    every sub-value must be matched in full by the pattern
//	type       string, int, float, date (via the date backend) or none
//	unique     a unique switch may appear once
//
// Then, over the accumulated set:
//
//	exclusivity   exclusive_of partners must not both be present
//	required      required switches, satisfied by any required_unless alternate
//	dependencies  every depends entry must be present
//	defaults      absent switches get their schema default
//	dates         date values become epoch seconds (dateConvert)
//	rules         relational rules run when the set is valid (enableRules)
//
// No phase stops the pipeline. Every problem is reported as an issue.Issue
// on the Outcome, so one run reports everything that is wrong. The only
// short cut is an unknown switch, which skips the remaining checks for that
// token.
//
// # Usage
//
//	s, _ := schema.Default()
//	engine, err := validator.New(s)
//	if err != nil {
//	    return err
//	}
//	out := engine.Validate(ctx, os.Args[1:])
//	if !out.Valid {
//	    for _, msg := range out.SortedErrors() {
//	        fmt.Println(msg)
//	    }
//	}
//
// # Open decisions
//
// A unique switch given twice is reported once per repeat, and its values
// are still accumulated. It still counts as present for the exclusivity,
// requirement and dependency checks of other switches.
package validator
