package ledger

import (
	"fmt"
	"strconv"

	"todo-dapp/client/internal/models"
)

const contractModule = "todo_list"

// Contract builds payloads for the todo_list module deployed at a fixed
// address. The six entry points mirror the on-chain interface.
type Contract struct {
	ModuleAddress string
}

func NewContract(moduleAddress string) *Contract {
	return &Contract{ModuleAddress: moduleAddress}
}

func (c *Contract) functionID(name string) string {
	return fmt.Sprintf("%s::%s::%s", c.ModuleAddress, contractModule, name)
}

func (c *Contract) InitializePayload() EntryFunctionPayload {
	return EntryFunctionPayload{
		Function:      c.functionID("initialize"),
		TypeArguments: []string{},
		Arguments:     []string{},
	}
}

func (c *Contract) AddTaskPayload(draft models.TaskDraft) EntryFunctionPayload {
	return EntryFunctionPayload{
		Function:      c.functionID("addTask"),
		TypeArguments: []string{},
		Arguments: []string{
			draft.Title,
			draft.Description,
			strconv.Itoa(int(draft.Priority)),
			strconv.FormatInt(draft.DueDate, 10),
			draft.Category,
		},
	}
}

func (c *Contract) CompleteTaskPayload(id uint64) EntryFunctionPayload {
	return EntryFunctionPayload{
		Function:      c.functionID("completeTask"),
		TypeArguments: []string{},
		Arguments:     []string{strconv.FormatUint(id, 10)},
	}
}

func (c *Contract) DeleteTaskPayload(id uint64) EntryFunctionPayload {
	return EntryFunctionPayload{
		Function:      c.functionID("deleteTask"),
		TypeArguments: []string{},
		Arguments:     []string{strconv.FormatUint(id, 10)},
	}
}

func (c *Contract) UpdatePriorityPayload(id uint64, priority models.Priority) EntryFunctionPayload {
	return EntryFunctionPayload{
		Function:      c.functionID("updateTaskPriority"),
		TypeArguments: []string{},
		Arguments: []string{
			strconv.FormatUint(id, 10),
			strconv.Itoa(int(priority)),
		},
	}
}

func (c *Contract) GetTasksView(accountAddress string) ViewRequest {
	return ViewRequest{
		Function:      c.functionID("getTasks"),
		TypeArguments: []string{},
		Arguments:     []string{accountAddress},
	}
}
