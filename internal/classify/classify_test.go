package classify

import (
	"context"
	"testing"

	"github.com/legaldesk/orchestrator/internal/domain"
)

func samePipeline(got []domain.AgentName, want ...domain.AgentName) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestClassifyGreeting(t *testing.T) {
	c := New(nil)
	result, err := c.Classify(context.Background(), "Hello there", Snapshot{})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if !samePipeline(result.Pipeline, domain.AgentAssistant) {
		t.Fatalf("expected [ASSISTANT], got %v", result.Pipeline)
	}
}

func TestClassifyComplianceWithoutContractSkipsParser(t *testing.T) {
	c := New(nil)
	result, err := c.Classify(context.Background(), "Does this comply with GDPR?", Snapshot{HasActiveContract: false})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if !samePipeline(result.Pipeline, domain.AgentComplianceChecker) {
		t.Fatalf("expected [COMPLIANCE_CHECKER], got %v", result.Pipeline)
	}
}

func TestClassifyComplianceWithContractPrependsParser(t *testing.T) {
	c := New(nil)
	result, err := c.Classify(context.Background(), "Check compliance with HIPAA", Snapshot{HasActiveContract: true, ClausesExtracted: false})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if !samePipeline(result.Pipeline, domain.AgentContractParser, domain.AgentComplianceChecker) {
		t.Fatalf("expected [CONTRACT_PARSER COMPLIANCE_CHECKER], got %v", result.Pipeline)
	}
}

func TestClassifyComplianceSkipsParserWhenClausesAlreadyExtracted(t *testing.T) {
	c := New(nil)
	result, err := c.Classify(context.Background(), "Check compliance with HIPAA", Snapshot{HasActiveContract: true, ClausesExtracted: true})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if !samePipeline(result.Pipeline, domain.AgentComplianceChecker) {
		t.Fatalf("expected parser to be skipped, got %v", result.Pipeline)
	}
}

func TestClassifyRisk(t *testing.T) {
	c := New(nil)
	result, err := c.Classify(context.Background(), "What's the risk in this clause?", Snapshot{HasActiveContract: true, ClausesExtracted: true})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if !samePipeline(result.Pipeline, domain.AgentRiskAssessor) {
		t.Fatalf("expected [RISK_ASSESSOR], got %v", result.Pipeline)
	}
}

func TestClassifyFullAnalysisMemoRequest(t *testing.T) {
	c := New(nil)
	result, err := c.Classify(context.Background(), "Give me a full analysis memo", Snapshot{HasActiveContract: true, ClausesExtracted: false})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	want := []domain.AgentName{domain.AgentContractParser, domain.AgentComplianceChecker, domain.AgentRiskAssessor, domain.AgentLegalMemo}
	if !samePipeline(result.Pipeline, want...) {
		t.Fatalf("expected %v, got %v", want, result.Pipeline)
	}
}

func TestClassifyContractParseRequiresActiveContract(t *testing.T) {
	c := New(nil)
	result, err := c.Classify(context.Background(), "Please parse this document", Snapshot{HasActiveContract: true})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if !samePipeline(result.Pipeline, domain.AgentContractParser) {
		t.Fatalf("expected [CONTRACT_PARSER], got %v", result.Pipeline)
	}
}

func TestClassifyLegalQuestionWithoutContract(t *testing.T) {
	c := New(nil)
	result, err := c.Classify(context.Background(), "What is a force majeure clause?", Snapshot{HasActiveContract: false})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if !samePipeline(result.Pipeline, domain.AgentLegalResearch) {
		t.Fatalf("expected [LEGAL_RESEARCH], got %v", result.Pipeline)
	}
}

func TestClassifyAmbiguousFallsBackToAssistantWithoutLLM(t *testing.T) {
	c := New(nil)
	result, err := c.Classify(context.Background(), "asdf qwer zxcv", Snapshot{})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if result.QueryType != "fallback_no_llm" {
		t.Fatalf("expected fallback_no_llm query type, got %s", result.QueryType)
	}
	if !samePipeline(result.Pipeline, domain.AgentAssistant) {
		t.Fatalf("expected [ASSISTANT] fallback, got %v", result.Pipeline)
	}
}
