package jenkins

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const folderClass = "com.cloudbees.hudson.plugins.folder.Folder"

func TestJobWalkRoot(t *testing.T) {
	s := newFakeServer(t)
	s.Router.Get("/api/json", writeJSON(`{"jobs":[
		{"_class":"hudson.model.FreeStyleProject","name":"zeta"},
		{"_class":"`+folderClass+`","name":"team"}
	]}`))
	s.Router.Get("/job/team/api/json", writeJSON(`{"_class":"`+folderClass+`","name":"team","jobs":[
		{"_class":"hudson.model.FreeStyleProject","name":"build"},
		{"_class":"org.jenkinsci.plugins.workflow.multibranch.WorkflowMultiBranchProject","name":"app"}
	]}`))
	s.Router.Get("/job/team/job/app/api/json", writeJSON(`{"name":"app","jobs":[
		{"_class":"org.jenkinsci.plugins.workflow.job.WorkflowJob","name":"main","color":"blue"}
	]}`))

	jobs, err := s.client(t).Job.Walk(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(jobs))

	for _, job := range jobs {
		names = append(names, job.Name)
	}

	assert.Equal(t, []string{"team/app/main", "team/build", "zeta"}, names)
	assert.Equal(t, "blue", jobs[0].Color)
	assert.Equal(t, walkTree, s.Requests()[1].Query.Get("tree"))
}

func TestJobWalkFolders(t *testing.T) {
	s := newFakeServer(t)
	s.Router.Get("/job/team/api/json", writeJSON(`{"_class":"`+folderClass+`","name":"team","jobs":[
		{"_class":"hudson.model.FreeStyleProject","name":"build"}
	]}`))
	s.Router.Get("/job/single/api/json", writeJSON(`{"_class":"hudson.model.FreeStyleProject","name":"single"}`))

	jobs, err := s.client(t).Job.Walk(context.Background(), "team", "single")
	require.NoError(t, err)

	require.Len(t, jobs, 2)
	assert.Equal(t, "single", jobs[0].Name)
	assert.Equal(t, "team/build", jobs[1].Name)
	assert.Equal(t, 0, s.Count(http.MethodGet, "/api/json"))
}

func TestJobWalkFailure(t *testing.T) {
	s := newFakeServer(t)
	s.Router.Get("/job/missing/api/json", writeStatus(http.StatusNotFound))

	_, err := s.client(t).Job.Walk(context.Background(), "missing")

	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusNotFound, serr.StatusCode)
	assert.ErrorContains(t, err, "failed to list folder missing")
}

func TestJobSummaryIsFolder(t *testing.T) {
	assert.True(t, JobSummary{Class: folderClass}.IsFolder())
	assert.True(t, JobSummary{Class: "jenkins.branch.OrganizationFolder"}.IsFolder())
	assert.False(t, JobSummary{Class: "hudson.model.FreeStyleProject"}.IsFolder())
}
