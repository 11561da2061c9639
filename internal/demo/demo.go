// Package demo builds example workflows covering the main graph patterns:
// conditional routing, retry loops through decision nodes, and per-tier
// deployment pipelines. The CLI uses them for demos and smoke checks.
package demo

import (
	"github.com/pinkflow/pinkflow/pkg/models"
	"github.com/pinkflow/pinkflow/pkg/workflow"
)

// DevelopmentCycle builds a development pipeline with a test/review loop:
// failing tests or a rejected review route back through a fix step that
// raises code quality until the gates pass.
func DevelopmentCycle() (*workflow.Workflow, error) {
	return workflow.NewBuilder("dev_cycle_001", "Complete Development Cycle", models.EnvironmentDevelopment).
		WithDescription("End-to-end development workflow from code to deployment").
		WithMetadata("version", "1.0.0").
		AddStartNode("start", "Start Development", func(ctx models.Context) (models.Context, error) {
			ctx["phase"] = "development"
			ctx["code_quality"] = 0
			ctx["tests_passed"] = false

			return ctx, nil
		}).
		AddProcessNode("write_code", "Write Code", func(ctx models.Context) (models.Context, error) {
			ctx["code_quality"] = 85

			return ctx, nil
		}, nil).
		AddProcessNode("run_tests", "Run Tests", func(ctx models.Context) (models.Context, error) {
			quality, _ := ctx["code_quality"].(int)
			ctx["tests_passed"] = quality > 70

			return ctx, nil
		}, nil).
		AddDecisionNode("check_tests", "Check Test Results", nil).
		AddProcessNode("code_review", "Code Review", func(ctx models.Context) (models.Context, error) {
			quality, _ := ctx["code_quality"].(int)
			ctx["review_approved"] = quality > 75

			return ctx, nil
		}, nil).
		AddDecisionNode("check_review", "Check Review", nil).
		AddProcessNode("deploy", "Deploy to Staging", func(ctx models.Context) (models.Context, error) {
			ctx["deployed_to"] = "staging"

			return ctx, nil
		}, nil).
		AddProcessNode("fix_issues", "Fix Issues", func(ctx models.Context) (models.Context, error) {
			quality, _ := ctx["code_quality"].(int)

			quality += 20
			if quality > 100 {
				quality = 100
			}

			ctx["code_quality"] = quality

			return ctx, nil
		}, nil).
		AddEndNode("end", "Complete", nil).
		Connect("start", "write_code", nil, 0).
		Connect("write_code", "run_tests", nil, 0).
		Connect("run_tests", "check_tests", nil, 0).
		Connect("check_tests", "code_review", models.Equals("tests_passed", true), 10).
		Connect("check_tests", "fix_issues", models.Equals("tests_passed", false), 5).
		Connect("fix_issues", "run_tests", nil, 0).
		Connect("code_review", "check_review", nil, 0).
		Connect("check_review", "deploy", models.Equals("review_approved", true), 10).
		Connect("check_review", "fix_issues", models.Equals("review_approved", false), 5).
		Connect("deploy", "end", nil, 0).
		Build()
}

// SandboxExperiment builds an experimentation workflow whose failing branch
// rolls back instead of deploying. Both branches converge on cleanup.
func SandboxExperiment() (*workflow.Workflow, error) {
	return workflow.NewBuilder("sandbox_exp_001", "Sandbox Experimentation", models.EnvironmentSandbox).
		WithDescription("Safe experimentation workflow with automatic rollback").
		AddStartNode("init", "Initialize Sandbox", func(ctx models.Context) (models.Context, error) {
			ctx["sandbox_id"] = "sandbox_001"
			ctx["experiment_count"] = 0

			return ctx, nil
		}).
		AddProcessNode("experiment", "Run Experiment", func(ctx models.Context) (models.Context, error) {
			count, _ := ctx["experiment_count"].(int)
			count++

			ctx["experiment_count"] = count
			ctx["experiment_success"] = count <= 3

			return ctx, nil
		}, nil).
		AddProcessNode("validate", "Validate Results", func(ctx models.Context) (models.Context, error) {
			success, _ := ctx["experiment_success"].(bool)
			ctx["results_valid"] = success

			return ctx, nil
		}, nil).
		AddDecisionNode("check_results", "Check Results", nil).
		AddProcessNode("promote", "Promote to Staging", func(ctx models.Context) (models.Context, error) {
			ctx["promoted"] = true

			return ctx, nil
		}, nil).
		AddProcessNode("rollback", "Rollback Changes", func(ctx models.Context) (models.Context, error) {
			ctx["rolled_back"] = true

			return ctx, nil
		}, nil).
		AddProcessNode("cleanup", "Cleanup", nil, nil).
		AddEndNode("end", "Complete", nil).
		Connect("init", "experiment", nil, 0).
		Connect("experiment", "validate", nil, 0).
		Connect("validate", "check_results", nil, 0).
		Connect("check_results", "promote", models.Equals("results_valid", true), 0).
		Connect("check_results", "rollback", models.Equals("results_valid", false), 0).
		Connect("promote", "cleanup", nil, 0).
		Connect("rollback", "cleanup", nil, 0).
		Connect("cleanup", "end", nil, 0).
		Build()
}

// StagingDeployment builds a staging pipeline with a performance gate.
func StagingDeployment() (*workflow.Workflow, error) {
	return workflow.NewBuilder("staging_deploy_001", "Staging Deployment with Quality Gates", models.EnvironmentStaging).
		WithDescription("Staging deployment workflow with automated quality gates").
		AddStartNode("start", "Start Deployment", nil).
		AddProcessNode("pre_checks", "Pre-deployment Checks", func(ctx models.Context) (models.Context, error) {
			ctx["checks_passed"] = true
			ctx["security_scan"] = "passed"

			return ctx, nil
		}, nil).
		AddProcessNode("deploy", "Deploy to Staging", func(ctx models.Context) (models.Context, error) {
			ctx["staging_url"] = "https://staging.pinkflow.dev"
			ctx["deployed"] = true

			return ctx, nil
		}, nil).
		AddProcessNode("smoke_tests", "Smoke Tests", func(ctx models.Context) (models.Context, error) {
			ctx["smoke_tests_passed"] = true

			return ctx, nil
		}, nil).
		AddProcessNode("perf_tests", "Performance Tests", func(ctx models.Context) (models.Context, error) {
			ctx["performance_score"] = 92
			ctx["performance_acceptable"] = true

			return ctx, nil
		}, nil).
		AddDecisionNode("check_performance", "Check Performance", nil).
		AddProcessNode("prod_ready", "Production Ready", func(ctx models.Context) (models.Context, error) {
			ctx["production_ready"] = true

			return ctx, nil
		}, nil).
		AddProcessNode("needs_tuning", "Needs Tuning", func(ctx models.Context) (models.Context, error) {
			ctx["needs_tuning"] = true

			return ctx, nil
		}, nil).
		AddEndNode("end", "Complete", nil).
		Connect("start", "pre_checks", nil, 0).
		Connect("pre_checks", "deploy", nil, 0).
		Connect("deploy", "smoke_tests", nil, 0).
		Connect("smoke_tests", "perf_tests", nil, 0).
		Connect("perf_tests", "check_performance", nil, 0).
		Connect("check_performance", "prod_ready", models.Equals("performance_acceptable", true), 0).
		Connect("check_performance", "needs_tuning", models.Equals("performance_acceptable", false), 0).
		Connect("prod_ready", "end", nil, 0).
		Connect("needs_tuning", "end", nil, 0).
		Build()
}

// ProductionDeployment builds a canary-gated production pipeline that rolls
// back when the canary is unhealthy.
func ProductionDeployment() (*workflow.Workflow, error) {
	return workflow.NewBuilder("prod_deploy_001", "Production Deployment with Canary", models.EnvironmentProduction).
		WithDescription("Production deployment with canary and automatic rollback").
		AddStartNode("start", "Start Production Deployment", nil).
		AddProcessNode("verify", "Verify Approvals", func(ctx models.Context) (models.Context, error) {
			approvals := []string{"tech_lead", "security", "product_owner"}
			ctx["approvals"] = approvals
			ctx["all_approved"] = len(approvals) >= 3

			return ctx, nil
		}, nil).
		AddProcessNode("backup", "Backup Current State", func(ctx models.Context) (models.Context, error) {
			ctx["backup_id"] = "backup_20250108_001"

			return ctx, nil
		}, nil).
		AddProcessNode("canary", "Canary Deployment", func(ctx models.Context) (models.Context, error) {
			ctx["canary_deployed"] = true
			ctx["canary_traffic_percent"] = 10

			return ctx, nil
		}, nil).
		AddProcessNode("monitor", "Monitor Canary", func(ctx models.Context) (models.Context, error) {
			ctx["canary_error_rate"] = 0.5
			ctx["canary_healthy"] = true

			return ctx, nil
		}, nil).
		AddDecisionNode("check_canary", "Check Canary Health", nil).
		AddProcessNode("full_deploy", "Full Deployment", func(ctx models.Context) (models.Context, error) {
			ctx["deployment_complete"] = true

			return ctx, nil
		}, nil).
		AddProcessNode("rollback", "Rollback", func(ctx models.Context) (models.Context, error) {
			ctx["rolled_back"] = true

			return ctx, nil
		}, nil).
		AddProcessNode("success", "Notify Success", nil, nil).
		AddProcessNode("failure", "Notify Failure", nil, nil).
		AddEndNode("end", "Complete", nil).
		Connect("start", "verify", nil, 0).
		Connect("verify", "backup", nil, 0).
		Connect("backup", "canary", nil, 0).
		Connect("canary", "monitor", nil, 0).
		Connect("monitor", "check_canary", nil, 0).
		Connect("check_canary", "full_deploy", models.Equals("canary_healthy", true), 0).
		Connect("check_canary", "rollback", models.Equals("canary_healthy", false), 0).
		Connect("full_deploy", "success", nil, 0).
		Connect("rollback", "failure", nil, 0).
		Connect("success", "end", nil, 0).
		Connect("failure", "end", nil, 0).
		Build()
}

// All builds every demo workflow.
func All() ([]*workflow.Workflow, error) {
	builders := []func() (*workflow.Workflow, error){
		DevelopmentCycle,
		SandboxExperiment,
		StagingDeployment,
		ProductionDeployment,
	}

	workflows := make([]*workflow.Workflow, 0, len(builders))

	for _, build := range builders {
		wf, err := build()
		if err != nil {
			return nil, err
		}

		workflows = append(workflows, wf)
	}

	return workflows, nil
}
