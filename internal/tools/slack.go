package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"
)

// severityTags maps incident severity levels to message prefixes.
var severityTags = map[string]string{
	"P1":   "[CRITICAL]",
	"P2":   "[HIGH]",
	"P3":   "[MEDIUM]",
	"info": "[INFO]",
}

// SendSlackNotificationTool posts incident reports to a Slack channel via an
// incoming webhook. Without a configured webhook URL it runs in placeholder
// mode and only reports what it would have sent.
type SendSlackNotificationTool struct {
	webhookURL     string
	defaultChannel string
}

// NewSendSlackNotificationTool creates the send_slack_notification tool.
func NewSendSlackNotificationTool(webhookURL, defaultChannel string) *SendSlackNotificationTool {
	if defaultChannel == "" {
		defaultChannel = "#devops-alerts"
	}
	return &SendSlackNotificationTool{
		webhookURL:     webhookURL,
		defaultChannel: defaultChannel,
	}
}

func (t *SendSlackNotificationTool) Name() string                   { return "send_slack_notification" }
func (t *SendSlackNotificationTool) Classification() Classification { return ClassAuto }

func (t *SendSlackNotificationTool) Description() string {
	return "Send an incident notification to a Slack channel with details about the issue and actions taken. Use this AFTER an action has been executed to notify the team about what happened."
}

func (t *SendSlackNotificationTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"channel": map[string]any{
				"type":        "string",
				"description": "Slack channel name (e.g. '#devops-alerts', '#incident-response')",
			},
			"summary": map[string]any{
				"type":        "string",
				"description": "Brief incident summary (e.g. 'RDS connection exhaustion on orders-db-prod')",
			},
			"severity": map[string]any{
				"type":        "string",
				"description": "Incident severity level ('P1', 'P2', 'P3', 'info')",
			},
			"details": map[string]any{
				"type":        "string",
				"description": "Detailed description of the issue and root cause",
			},
			"actions_taken": map[string]any{
				"type":        "string",
				"description": "Description of remediation actions that were executed",
			},
		},
		"required": []string{"channel", "summary"},
	}
}

func (t *SendSlackNotificationTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	channel := GetString(params, "channel", t.defaultChannel)
	summary := GetString(params, "summary", "")
	severity := GetString(params, "severity", "P1")
	details := GetString(params, "details", "")
	actions := GetString(params, "actions_taken", "")

	if summary == "" {
		return "Error: summary is required", nil
	}

	if t.webhookURL == "" {
		return fmt.Sprintf("[SIMULATED] Slack notification sent to %s.\nSummary: %s - %s\nThe team has been notified about the incident and actions taken.",
			channel, severity, summary), nil
	}

	msg := buildIncidentMessage(channel, summary, severity, details, actions)
	if err := slack.PostWebhookContext(ctx, t.webhookURL, msg); err != nil {
		return fmt.Sprintf("Failed to send Slack notification: %v", err), nil
	}

	return fmt.Sprintf("Slack notification sent to %s.\nSummary: %s - %s", channel, severity, summary), nil
}

// buildIncidentMessage assembles the Block Kit payload for an incident report.
func buildIncidentMessage(channel, summary, severity, details, actions string) *slack.WebhookMessage {
	tag, ok := severityTags[severity]
	if !ok {
		tag = "[UNKNOWN]"
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType,
			fmt.Sprintf("%s %s Incident: %s", tag, severity, summary), false, false)),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Severity:* %s\n*Summary:* %s", severity, summary), false, false), nil, nil),
	}

	if strings.TrimSpace(details) != "" {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType,
			"*Details:*\n"+details, false, false), nil, nil))
	}
	if strings.TrimSpace(actions) != "" {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType,
			"*Actions Taken:*\n"+actions, false, false), nil, nil))
	}

	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType, "Sent by LogSentry | DevOps Automation", false, false)))

	return &slack.WebhookMessage{
		Channel: channel,
		Text:    fmt.Sprintf("%s %s: %s", tag, severity, summary),
		Blocks:  &slack.Blocks{BlockSet: blocks},
	}
}
