// Copyright (c) FormFlow Authors. Licensed under the MIT License.

/*
Package agent provides the four model-backed agents of the form service.

# Overview

Each agent renders one static prompt template, calls the model through an
llm.Completer exactly once, and converts the free-form answer into a typed
result. Unparseable answers never surface as errors: every agent has an
explicit fallback value. Model-service failures are returned unchanged.

# Agents

	SchemaAgent      description            -> FormSchema           (temperature 0)
	ValidationAgent  schema + submission    -> ValidationResult     (temperature 0)
	RecoveryAgent    schema + submission    -> RecoverySuggestions  (temperature 0.2)
	                 + errors
	LearningAgent    schema + history       -> LearningInsights     (temperature 0)

# Validation

ValidationAgent always runs the rule-based pass ([ValidateDeterministic]):
required, email and number checks in schema order. Only when some field type
contains "date" is the model consulted; its errors replace rule-based ones for
the same field, and any failure of that pass is logged and ignored.

# Fallbacks

  - SchemaAgent: a schema with an empty field list
  - RecoveryAgent: an empty suggestion map
  - LearningAgent: empty insights

# Prompts

Templates are package-level values ([SchemaPrompt], [ValidationPrompt],
[RecoveryPrompt], [LearningPrompt]) with named {slot} placeholders filled by
[Template.Render].
*/
package agent
