// SPDX-License-Identifier: MPL-2.0

// Package model defines the component/build description consumed by the
// execution engine and the Action contract every schedulable unit of work
// implements.
//
// A Component offers one or more Builds. Each Build owns at most one Action
// per kind (configure, install); the clone Action belongs to the Component and
// is shared by its Builds. Actions expose their dependency set, a satisfaction
// check and a run step; the executor package orders and runs them.
package model
