package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"texhub/models"
)

const DefaultMainTex = `\documentclass{article}
\usepackage[utf8]{inputenc}

\title{Untitled Document}
\author{}
\date{\today}

\begin{document}

\maketitle

\section{Introduction}

Start writing here.

\end{document}
`

func newShortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

// CreateProject makes a project for ownerID, seeding a default main.tex and
// marking it the entrypoint unless skipDefaultFile is set.
func CreateProject(ownerID, name string, skipDefaultFile bool) (*models.Project, error) {
	if err := CheckProjectCount(ownerID); err != nil {
		return nil, err
	}

	if name == "" {
		name = "Untitled Project"
	}
	now := time.Now()
	project := models.Project{
		ID:           uuid.NewString(),
		ShortID:      newShortID(),
		Name:         name,
		OwnerID:      ownerID,
		Compiler:     models.CompilerPDFLaTeX,
		PublicAccess: models.PublicNone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := models.DB.Create(&project).Error; err != nil {
		return nil, err
	}

	if !skipDefaultFile {
		mainTex := models.ProjectFile{
			ID:        uuid.NewString(),
			ProjectID: project.ID,
			Name:      "main.tex",
			Content:   DefaultMainTex,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := models.DB.Create(&mainTex).Error; err != nil {
			return nil, err
		}
		project.EntrypointFileID = &mainTex.ID
		if err := models.DB.Model(&project).Update("entrypoint_file_id", mainTex.ID).Error; err != nil {
			return nil, err
		}
	}

	return &project, nil
}

// ListProjects returns the projects a user owns or is a member of, most
// recently updated first. Unauthenticated callers see nothing.
func ListProjects(userID string) []models.Project {
	if userID == "" {
		return []models.Project{}
	}

	var owned []models.Project
	models.DB.Find(&owned, "owner_id = ?", userID)

	seen := make(map[string]bool, len(owned))
	for _, p := range owned {
		seen[p.ID] = true
	}

	var memberships []models.Membership
	models.DB.Find(&memberships, "user_id = ?", userID)

	projects := owned
	for _, m := range memberships {
		if seen[m.ProjectID] {
			continue
		}
		var p models.Project
		if err := models.DB.First(&p, "id = ?", m.ProjectID).Error; err != nil {
			continue
		}
		seen[p.ID] = true
		projects = append(projects, p)
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].UpdatedAt.After(projects[j].UpdatedAt)
	})
	return projects
}

// DeleteProject removes the project and everything it owns: files,
// memberships, pending invites, compilation outputs, and the blobs behind
// binary files and cached artifacts.
func DeleteProject(ctx context.Context, store BlobStore, project *models.Project) error {
	var files []models.ProjectFile
	models.DB.Find(&files, "project_id = ?", project.ID)
	var outputs []models.CompilationOutput
	models.DB.Find(&outputs, "project_id = ?", project.ID)

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{
			&models.ProjectFile{},
			&models.Membership{},
			&models.PendingInvite{},
			&models.CompilationOutput{},
		} {
			if err := tx.Delete(m, "project_id = ?", project.ID).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Project{}, "id = ?", project.ID).Error
	})
	if err != nil {
		return err
	}

	if store != nil {
		for _, f := range files {
			if f.StorageRef == nil {
				continue
			}
			if derr := store.Delete(ctx, *f.StorageRef); derr != nil {
				log.Warn().Err(derr).Str("ref", *f.StorageRef).Msg("failed to release file blob")
			}
		}
		for _, o := range outputs {
			if derr := store.Delete(ctx, o.StorageRef); derr != nil {
				log.Warn().Err(derr).Str("ref", o.StorageRef).Msg("failed to release artifact blob")
			}
		}
	}
	return nil
}
