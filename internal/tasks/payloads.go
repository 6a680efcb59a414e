package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypeJobsExpire       = "jobs:expire"
	TypeStoragePurgeUser = "storage:purge_user"
)

// StoragePurgeUserPayload 指明要清理哪个已删除用户的简历文件。
type StoragePurgeUserPayload struct {
	UserID        uint   `json:"user_id"`
	CorrelationID string `json:"correlation_id"`
}

// NewJobsExpireTask 构造周期性的职位过期任务，无需负载。
func NewJobsExpireTask() *asynq.Task {
	return asynq.NewTask(TypeJobsExpire, nil, asynq.MaxRetry(1))
}

// NewStoragePurgeUserTask 构造删除用户简历文件的任务。
func NewStoragePurgeUserTask(userID uint, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(StoragePurgeUserPayload{
		UserID:        userID,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeStoragePurgeUser, payload, asynq.MaxRetry(5)), nil
}

// ParseStoragePurgeUserPayload 解析 TypeStoragePurgeUser 任务负载。
func ParseStoragePurgeUserPayload(task *asynq.Task) (StoragePurgeUserPayload, error) {
	var p StoragePurgeUserPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, err
	}
	return p, nil
}
