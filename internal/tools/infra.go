package tools

import (
	"context"
	"fmt"
)

// RestartKubernetesPodTool restarts a Kubernetes pod by deleting it so the
// owning ReplicaSet or Deployment recreates it. The action is disruptive and
// always requires human approval.
//
// The current implementation is a simulation; it reports the kubectl action
// that a wired-up cluster client would perform.
type RestartKubernetesPodTool struct{}

// NewRestartKubernetesPodTool creates the restart_kubernetes_pod tool.
func NewRestartKubernetesPodTool() *RestartKubernetesPodTool {
	return &RestartKubernetesPodTool{}
}

func (t *RestartKubernetesPodTool) Name() string { return "restart_kubernetes_pod" }

func (t *RestartKubernetesPodTool) Classification() Classification { return ClassApprovalRequired }

func (t *RestartKubernetesPodTool) Description() string {
	return "Restart a Kubernetes pod by deleting it (will be recreated by deployment/replicaset). IMPORTANT: Always ask for user approval before using this tool as it will cause service disruption."
}

func (t *RestartKubernetesPodTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pod_name": map[string]any{
				"type":        "string",
				"description": "Name of the pod to restart (e.g. 'pod-java-app-7d9f8b6c5-xk2m9')",
			},
			"namespace": map[string]any{
				"type":        "string",
				"description": "Kubernetes namespace (default: 'default')",
			},
			"reason": map[string]any{
				"type":        "string",
				"description": "Reason for restart (e.g. 'OutOfMemoryError recovery')",
			},
		},
		"required": []string{"pod_name"},
	}
}

func (t *RestartKubernetesPodTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	podName := GetString(params, "pod_name", "")
	namespace := GetString(params, "namespace", "default")
	if podName == "" {
		return "Error: pod_name is required", nil
	}

	return fmt.Sprintf("[SIMULATED] Successfully restarted pod '%s' in namespace '%s'. Pod will be recreated automatically.",
		podName, namespace), nil
}

// RebootRDSInstanceTool reboots an AWS RDS database instance to reset
// connections. Causes a brief service interruption, so it always requires
// human approval.
type RebootRDSInstanceTool struct {
	region string
}

// NewRebootRDSInstanceTool creates the reboot_rds_instance tool.
func NewRebootRDSInstanceTool(region string) *RebootRDSInstanceTool {
	if region == "" {
		region = "us-east-1"
	}
	return &RebootRDSInstanceTool{region: region}
}

func (t *RebootRDSInstanceTool) Name() string { return "reboot_rds_instance" }

func (t *RebootRDSInstanceTool) Classification() Classification { return ClassApprovalRequired }

func (t *RebootRDSInstanceTool) Description() string {
	return "Reboot an AWS RDS database instance to reset connections and restore service. IMPORTANT: Always ask for user approval before using this tool. This will cause a brief service interruption (typically 1-3 minutes). Use this when logs show 'Too many connections' errors across multiple application pods."
}

func (t *RebootRDSInstanceTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"db_instance_id": map[string]any{
				"type":        "string",
				"description": "The RDS instance identifier (e.g. 'orders-db-prod')",
			},
			"reason": map[string]any{
				"type":        "string",
				"description": "Reason for the reboot (e.g. 'Connection pool exhaustion recovery')",
			},
		},
		"required": []string{"db_instance_id"},
	}
}

func (t *RebootRDSInstanceTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	instanceID := GetString(params, "db_instance_id", "")
	reason := GetString(params, "reason", "")
	if instanceID == "" {
		return "Error: db_instance_id is required", nil
	}

	return fmt.Sprintf("[SIMULATED] Successfully initiated reboot of RDS instance '%s' in region %s.\nReason: %s\nExpected downtime: 1-3 minutes.\nAll existing database connections will be dropped. Application pods will reconnect automatically via the connection pool.",
		instanceID, t.region, reason), nil
}
