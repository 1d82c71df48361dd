package ecs

import (
	"fmt"
	"reflect"
)

// EntityID 是实体的唯一标识符
// 低 32 位为槽位索引，高 32 位为代数（generation）。
// 槽位被回收复用时代数加一，旧的 EntityID 因代数不匹配而自动失效，
// 因此 EntityID 可以安全地作为弱引用保存在延迟回调中。
type EntityID uint64

const entityIndexBits = 32

func makeEntityID(index, gen uint32) EntityID {
	return EntityID(uint64(gen)<<entityIndexBits | uint64(index))
}

// Index 返回槽位索引（从1开始，0保留为无效ID）
func (id EntityID) Index() uint32 {
	return uint32(id)
}

// Generation 返回槽位代数
func (id EntityID) Generation() uint32 {
	return uint32(uint64(id) >> entityIndexBits)
}

// Valid 报告 ID 是否可能指向一个实体（不检查存活）
func (id EntityID) Valid() bool {
	return id.Index() > 0
}

func (id EntityID) String() string {
	return fmt.Sprintf("%d#%d", id.Index(), id.Generation())
}

// EntityManager 管理所有实体和组件
type EntityManager struct {
	// 槽位代数表：generations[index-1] 为该槽位当前代数
	generations []uint32
	// 空闲槽位（已删除实体释放的索引）
	free []uint32
	// 实体-组件映射: EntityID -> ComponentType -> Component实例
	components map[EntityID]map[reflect.Type]interface{}
	// 注册顺序（模拟按此顺序迭代，保证确定性）
	order []EntityID
	// 待删除的实体ID列表
	entitiesToDestroy []EntityID
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		components:        make(map[EntityID]map[reflect.Type]interface{}),
		entitiesToDestroy: make([]EntityID, 0),
	}
}

// CreateEntity 创建新实体并返回唯一ID
// 优先复用空闲槽位，复用时代数已在删除时递增
func (em *EntityManager) CreateEntity() EntityID {
	var index uint32
	if n := len(em.free); n > 0 {
		index = em.free[n-1]
		em.free = em.free[:n-1]
	} else {
		em.generations = append(em.generations, 0)
		index = uint32(len(em.generations))
	}
	id := makeEntityID(index, em.generations[index-1])
	em.components[id] = make(map[reflect.Type]interface{})
	em.order = append(em.order, id)
	return id
}

// DestroyEntity 标记实体待删除(不立即删除)
func (em *EntityManager) DestroyEntity(id EntityID) {
	if !em.IsAlive(id) {
		return
	}
	em.entitiesToDestroy = append(em.entitiesToDestroy, id)
}

// IsAlive 检查实体句柄是否仍然有效
// 已被 RemoveMarkedEntities 清理、或槽位已被复用的旧句柄均返回 false
func (em *EntityManager) IsAlive(id EntityID) bool {
	if em == nil || !id.Valid() || int(id.Index()) > len(em.generations) {
		return false
	}
	if em.generations[id.Index()-1] != id.Generation() {
		return false
	}
	_, exists := em.components[id]
	return exists
}

// AddComponent 为实体添加组件
func (em *EntityManager) AddComponent(id EntityID, component interface{}) {
	componentType := reflect.TypeOf(component)
	if compMap, exists := em.components[id]; exists {
		compMap[componentType] = component
	}
}

// RemoveComponent 从实体移除指定类型的组件
func (em *EntityManager) RemoveComponent(id EntityID, componentType reflect.Type) {
	if compMap, exists := em.components[id]; exists {
		delete(compMap, componentType)
	}
}

// GetComponent 获取实体的特定类型组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (interface{}, bool) {
	if compMap, exists := em.components[id]; exists {
		if comp, found := compMap[componentType]; found {
			return comp, true
		}
	}
	return nil, false
}

// HasComponent 检查实体是否拥有特定类型组件
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	if compMap, exists := em.components[id]; exists {
		_, found := compMap[componentType]
		return found
	}
	return false
}

// RemoveMarkedEntities 清理所有标记删除的实体
// 被清理的槽位代数加一并放回空闲列表
func (em *EntityManager) RemoveMarkedEntities() {
	if len(em.entitiesToDestroy) == 0 {
		return
	}
	removed := make(map[EntityID]struct{}, len(em.entitiesToDestroy))
	for _, id := range em.entitiesToDestroy {
		if _, exists := em.components[id]; !exists {
			continue
		}
		delete(em.components, id)
		em.generations[id.Index()-1]++
		em.free = append(em.free, id.Index())
		removed[id] = struct{}{}
	}
	em.entitiesToDestroy = em.entitiesToDestroy[:0] // 清空切片

	kept := em.order[:0]
	for _, id := range em.order {
		if _, gone := removed[id]; !gone {
			kept = append(kept, id)
		}
	}
	em.order = kept
}

// Entities 按注册顺序返回所有存活实体
// 返回的是副本，迭代期间创建或删除实体是安全的
func (em *EntityManager) Entities() []EntityID {
	out := make([]EntityID, len(em.order))
	copy(out, em.order)
	return out
}

// Count 返回存活实体数量
func (em *EntityManager) Count() int {
	return len(em.order)
}

// GetEntitiesWith 查询拥有指定组件类型组合的所有实体
// 参数: componentTypes ...reflect.Type - 需要的组件类型列表
// 返回: []EntityID - 满足条件的实体ID列表（按注册顺序）
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	result := make([]EntityID, 0)

	for _, id := range em.order {
		compMap := em.components[id]
		hasAll := true
		for _, ct := range componentTypes {
			if _, found := compMap[ct]; !found {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, id)
		}
	}

	return result
}

// ========== 泛型访问接口 ==========

// GetComponent 泛型版本的组件获取，避免调用方手写类型断言
func GetComponent[T any](em *EntityManager, id EntityID) (T, bool) {
	var zero T
	comp, ok := em.GetComponent(id, reflect.TypeOf((*T)(nil)).Elem())
	if !ok {
		return zero, false
	}
	typed, ok := comp.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// HasComponent 泛型版本的组件检查
func HasComponent[T any](em *EntityManager, id EntityID) bool {
	return em.HasComponent(id, reflect.TypeOf((*T)(nil)).Elem())
}

// RemoveComponent 泛型版本的组件移除
func RemoveComponent[T any](em *EntityManager, id EntityID) {
	em.RemoveComponent(id, reflect.TypeOf((*T)(nil)).Elem())
}

// GetEntitiesWith1 查询拥有组件 T1 的实体
func GetEntitiesWith1[T1 any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(reflect.TypeOf((*T1)(nil)).Elem())
}

// GetEntitiesWith2 查询同时拥有组件 T1、T2 的实体
func GetEntitiesWith2[T1, T2 any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(
		reflect.TypeOf((*T1)(nil)).Elem(),
		reflect.TypeOf((*T2)(nil)).Elem(),
	)
}

// GetEntitiesWith3 查询同时拥有组件 T1、T2、T3 的实体
func GetEntitiesWith3[T1, T2, T3 any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(
		reflect.TypeOf((*T1)(nil)).Elem(),
		reflect.TypeOf((*T2)(nil)).Elem(),
		reflect.TypeOf((*T3)(nil)).Elem(),
	)
}
